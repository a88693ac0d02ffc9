package bills

import (
	"math"
	"time"
)

// defaultDayShare is the day fraction applied when an electricity bill
// reports only a total kWh with no day/night breakdown. The 70/30 split is a
// documented policy default, not supplier data; a supplier that omits the
// breakdown gets its real split misattributed.
const defaultDayShare = 0.70

// BillRef records one bill's contribution to a ledger day, keeping the bill's
// own period total and span for traceability. It is never used to recompute
// shares.
type BillRef struct {
	BillID string      `json:"bill_id"`
	Type   UtilityType `json:"type"`
	Total  float64     `json:"total"`
	Days   int         `json:"days"`
}

// DayUsage is the accumulated per-day quantity ledger entry for a single
// calendar day, keyed externally by ISO date.
type DayUsage struct {
	Date                string    `json:"date"`
	ElectricityDayKWh   float64   `json:"electricity_day_kwh"`
	ElectricityNightKWh float64   `json:"electricity_night_kwh"`
	ElectricityKWh      float64   `json:"electricity_kwh"`
	ElectricityCost     float64   `json:"electricity_cost"`
	GasKWh              float64   `json:"gas_kwh"`
	GasCost             float64   `json:"gas_cost"`
	Sources             []BillRef `json:"sources,omitempty"`
}

// DailyLedger accumulates pro-rated bill quantities per ISO calendar day.
type DailyLedger map[string]*DayUsage

// NewDailyLedger returns an empty ledger.
func NewDailyLedger() DailyLedger {
	return make(DailyLedger)
}

// SpreadAll spreads every bill into the ledger and returns how many were
// placed on the timeline.
func (l DailyLedger) SpreadAll(raws []RawBill) int {
	n := 0
	for i := range raws {
		if l.Spread(raws[i]) {
			n++
		}
	}
	return n
}

// Spread distributes a bill's period totals evenly across every calendar day
// in its inclusive billing period. Bills without a resolvable, parseable
// start AND end date are skipped entirely: an undated bill cannot be placed
// on a timeline. Returns whether the bill contributed to the ledger.
//
// For a period of D days and total quantity Q, each day receives exactly Q/D,
// so summing the ledger over the period reconstructs Q up to floating-point
// error.
func (l DailyLedger) Spread(raw RawBill) bool {
	typ := raw.Type()
	if typ != UtilityElectricity && typ != UtilityGas {
		return false
	}

	v := raw.view()
	start := parseDate(resolveString(v, "period_start", ""))
	end := parseDate(resolveString(v, "period_end", ""))
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return false
	}

	days := int(math.Round(end.Sub(start).Hours()/24)) + 1
	if days < 1 {
		days = 1
	}
	d := float64(days)

	var dayKWh, nightKWh, totalKWh, cost float64
	switch typ {
	case UtilityElectricity:
		dayKWh = resolveFloat(v, "day_kwh")
		nightKWh = resolveFloat(v, "night_kwh")
		totalKWh = resolveFloat(v, "total_kwh")
		if totalKWh == 0 {
			totalKWh = dayKWh + nightKWh
		}
		if dayKWh == 0 && nightKWh == 0 && totalKWh > 0 {
			dayKWh = totalKWh * defaultDayShare
			nightKWh = totalKWh - dayKWh
		}
		cost = resolveFloat(v, "total_cost")
	case UtilityGas:
		totalKWh = resolveFloat(v, "consumption_kwh")
		if totalKWh == 0 {
			totalKWh = resolveFloat(v, "total_kwh")
		}
		cost = resolveFloat(v, "total_cost")
	}

	ref := BillRef{BillID: rowID(&raw, 0), Type: typ, Total: totalKWh, Days: days}

	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		entry := l.entry(cur)
		switch typ {
		case UtilityElectricity:
			entry.ElectricityDayKWh += dayKWh / d
			entry.ElectricityNightKWh += nightKWh / d
			entry.ElectricityKWh += totalKWh / d
			entry.ElectricityCost += cost / d
		case UtilityGas:
			entry.GasKWh += totalKWh / d
			entry.GasCost += cost / d
		}
		entry.addSource(ref)
	}
	return true
}

func (l DailyLedger) entry(t time.Time) *DayUsage {
	key := isoDate(t)
	e, ok := l[key]
	if !ok {
		e = &DayUsage{Date: key}
		l[key] = e
	}
	return e
}

// addSource appends a bill reference, deduplicated by (bill, type) so a bill
// contributes at most one reference per day.
func (u *DayUsage) addSource(ref BillRef) {
	for _, s := range u.Sources {
		if s.BillID == ref.BillID && s.Type == ref.Type {
			return
		}
	}
	u.Sources = append(u.Sources, ref)
}
