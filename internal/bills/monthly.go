package bills

import (
	"sort"
	"time"
)

// MonthlyBucket is one calendar month's aggregate for the selected year.
// DaysCovered counts distinct ledger days that fell in the month; when it is
// short of the calendar length the month's totals are provisional.
type MonthlyBucket struct {
	Month               string   `json:"month"` // YYYY-MM
	ElectricityDayKWh   float64  `json:"electricity_day_kwh"`
	ElectricityNightKWh float64  `json:"electricity_night_kwh"`
	ElectricityKWh      float64  `json:"electricity_kwh"`
	ElectricityCost     float64  `json:"electricity_cost"`
	GasKWh              float64  `json:"gas_kwh"`
	GasCost             float64  `json:"gas_cost"`
	DaysCovered         int      `json:"days_covered"`
	DaysInMonth         int      `json:"days_in_month"`
	IsComplete          bool     `json:"is_complete"`
	ElectricityBills    []string `json:"electricity_bills,omitempty"`
	GasBills            []string `json:"gas_bills,omitempty"`
}

// YearTotals sums every bucket of the year per utility type.
type YearTotals struct {
	ElectricityDayKWh   float64 `json:"electricity_day_kwh"`
	ElectricityNightKWh float64 `json:"electricity_night_kwh"`
	ElectricityKWh      float64 `json:"electricity_kwh"`
	ElectricityCost     float64 `json:"electricity_cost"`
	GasKWh              float64 `json:"gas_kwh"`
	GasCost             float64 `json:"gas_cost"`
}

// YearSeries is the monthly time-series view for one year, with buckets
// sorted ascending by month key (lexicographic YYYY-MM order is
// chronological).
type YearSeries struct {
	Year             int             `json:"year"`
	Months           []MonthlyBucket `json:"months"`
	Totals           YearTotals      `json:"totals"`
	IncompleteMonths []string        `json:"incomplete_months,omitempty"`
}

// AggregateYear folds the daily ledger into per-month buckets for the given
// calendar year. Only months that actually appear in the ledger produce a
// bucket; an absent month is simply missing rather than reported as
// incomplete.
func AggregateYear(ledger DailyLedger, year int) YearSeries {
	buckets := make(map[string]*MonthlyBucket)
	elecBills := make(map[string]map[string]struct{})
	gasBills := make(map[string]map[string]struct{})

	for key, day := range ledger {
		t := parseDate(key)
		if t.IsZero() || t.Year() != year {
			continue
		}
		mk := t.Format("2006-01")
		b, ok := buckets[mk]
		if !ok {
			b = &MonthlyBucket{
				Month:       mk,
				DaysInMonth: daysInMonth(year, t.Month()),
			}
			buckets[mk] = b
			elecBills[mk] = make(map[string]struct{})
			gasBills[mk] = make(map[string]struct{})
		}
		b.ElectricityDayKWh += day.ElectricityDayKWh
		b.ElectricityNightKWh += day.ElectricityNightKWh
		b.ElectricityKWh += day.ElectricityKWh
		b.ElectricityCost += day.ElectricityCost
		b.GasKWh += day.GasKWh
		b.GasCost += day.GasCost
		b.DaysCovered++
		for _, src := range day.Sources {
			switch src.Type {
			case UtilityElectricity:
				elecBills[mk][src.BillID] = struct{}{}
			case UtilityGas:
				gasBills[mk][src.BillID] = struct{}{}
			}
		}
	}

	series := YearSeries{Year: year}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b := buckets[k]
		b.IsComplete = b.DaysCovered == b.DaysInMonth
		if !b.IsComplete {
			series.IncompleteMonths = append(series.IncompleteMonths, k)
		}
		b.ElectricityBills = sortedIDs(elecBills[k])
		b.GasBills = sortedIDs(gasBills[k])

		series.Totals.ElectricityDayKWh += b.ElectricityDayKWh
		series.Totals.ElectricityNightKWh += b.ElectricityNightKWh
		series.Totals.ElectricityKWh += b.ElectricityKWh
		series.Totals.ElectricityCost += b.ElectricityCost
		series.Totals.GasKWh += b.GasKWh
		series.Totals.GasCost += b.GasCost

		series.Months = append(series.Months, *b)
	}
	return series
}

func daysInMonth(year int, m time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func sortedIDs(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
