package bills

import (
	"sort"
	"strings"
)

// Query is the set of user-selected predicates applied to normalized rows.
// Empty or "all" values match everything. Date bounds compare
// lexicographically and therefore assume ISO-formatted row dates.
type Query struct {
	HotelID string
	Type    string
	From    string
	To      string
	Search  string
}

// Filter applies the query to rows and returns the matching subset. Filtering
// is a pure projection: applying the same query twice yields the same set.
func Filter(rows []Row, q Query) []Row {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !matchValue(q.HotelID, r.HotelID) {
			continue
		}
		if !matchValue(q.Type, string(r.Type)) {
			continue
		}
		if q.From != "" && r.Date < q.From {
			continue
		}
		if q.To != "" && r.Date > q.To {
			continue
		}
		if search != "" && !matchSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchValue(want, got string) bool {
	return want == "" || want == "all" || want == got
}

// matchSearch is an OR over the row's identifying text fields: any one field
// containing the needle passes the row.
func matchSearch(r Row, needle string) bool {
	for _, f := range []string{r.HotelName, r.Supplier, r.MeterNumber, r.MPRN, r.GPRN, r.Filename} {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// numericSortKeys are the sortable columns compared as numbers; everything
// else is compared as a lowered string. Dates are ISO strings, so string
// comparison orders them chronologically.
var numericSortKeys = map[string]bool{
	"total_cost":        true,
	"vat_amount":        true,
	"day_kwh":           true,
	"night_kwh":         true,
	"total_kwh":         true,
	"mic_value":         true,
	"max_demand":        true,
	"mic_excess":        true,
	"mic_excess_cost":   true,
	"mic_excess_rate":   true,
	"mic_standard_rate": true,
	"standing_charge":   true,
	"electricity_tax":   true,
	"consumption_kwh":   true,
	"units_consumed":    true,
	"conversion_factor": true,
	"carbon_tax":        true,
	"commodity_cost":    true,
}

// SortRows returns a sorted copy of rows on a single key. Rows with a missing
// value for the key sort last regardless of direction; the two divergent null
// policies in earlier implementations were consolidated to this one rule so
// toggling direction never shuffles empty rows to the top.
func SortRows(rows []Row, key string, desc bool) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	if key == "" {
		return out
	}

	numeric := numericSortKeys[key]
	sort.SliceStable(out, func(i, j int) bool {
		if numeric {
			a, b := numericValue(out[i], key), numericValue(out[j], key)
			if a == b {
				return false
			}
			if desc {
				return a > b
			}
			return a < b
		}

		a, b := stringValue(out[i], key), stringValue(out[j], key)
		// Missing values always last.
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		a, b = strings.ToLower(a), strings.ToLower(b)
		if a == b {
			return false
		}
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}

func stringValue(r Row, key string) string {
	switch key {
	case "hotel_name":
		return r.HotelName
	case "hotel_id":
		return r.HotelID
	case "date":
		return r.Date
	case "billing_period":
		if r.BillingPeriod == "N/A" {
			return ""
		}
		return r.BillingPeriod
	case "supplier":
		return r.Supplier
	case "meter_number":
		return r.MeterNumber
	case "mprn":
		return r.MPRN
	case "gprn":
		return r.GPRN
	case "filename":
		return r.Filename
	case "type":
		return string(r.Type)
	}
	return ""
}

func numericValue(r Row, key string) float64 {
	switch key {
	case "total_cost":
		return r.TotalCost
	case "vat_amount":
		return r.VATAmount
	case "day_kwh":
		return r.DayKWh
	case "night_kwh":
		return r.NightKWh
	case "total_kwh":
		return r.TotalKWh
	case "mic_value":
		return r.MICValue
	case "max_demand":
		return r.MaxDemand
	case "mic_excess":
		return r.MICExcess
	case "mic_excess_cost":
		return r.MICExcessCost
	case "mic_excess_rate":
		return r.MICExcessRate
	case "mic_standard_rate":
		return r.MICStandardRate
	case "standing_charge":
		return r.StandingCharge
	case "electricity_tax":
		return r.ElectricityTax
	case "consumption_kwh":
		return r.ConsumptionKWh
	case "units_consumed":
		return r.UnitsConsumed
	case "conversion_factor":
		return r.ConversionFactor
	case "carbon_tax":
		return r.CarbonTax
	case "commodity_cost":
		return r.CommodityCost
	}
	return 0
}

// Totals are the aggregate figures recomputed over a filtered (and optionally
// selected) row set.
type Totals struct {
	Count                int     `json:"count"`
	ElectricityCost      float64 `json:"electricity_cost"`
	ElectricityKWh       float64 `json:"electricity_kwh"`
	DayKWh               float64 `json:"day_kwh"`
	NightKWh             float64 `json:"night_kwh"`
	MICExcessCost        float64 `json:"mic_excess_cost"`
	GasCost              float64 `json:"gas_cost"`
	GasKWh               float64 `json:"gas_kwh"`
	AverageMicRate       float64 `json:"average_mic_rate"`
	AverageMicExcessRate float64 `json:"average_mic_excess_rate"`
}

// ComputeTotals sums the rows, restricted to the selected IDs when the set is
// non-empty. The MIC rate averages are arithmetic means over rows with a
// non-zero value only, so bills without capacity charges don't dilute them.
func ComputeTotals(rows []Row, selected map[string]bool) Totals {
	var t Totals
	var micRateSum, micExcessRateSum float64
	var micRateN, micExcessRateN int

	for _, r := range rows {
		if len(selected) > 0 && !selected[r.ID] {
			continue
		}
		t.Count++
		switch r.Type {
		case UtilityElectricity:
			t.ElectricityCost += r.TotalCost
			t.ElectricityKWh += r.TotalKWh
			t.DayKWh += r.DayKWh
			t.NightKWh += r.NightKWh
			t.MICExcessCost += r.MICExcessCost
			if r.MICStandardRate != 0 {
				micRateSum += r.MICStandardRate
				micRateN++
			}
			if r.MICExcessRate != 0 {
				micExcessRateSum += r.MICExcessRate
				micExcessRateN++
			}
		case UtilityGas:
			t.GasCost += r.TotalCost
			t.GasKWh += r.ConsumptionKWh
		}
	}
	if micRateN > 0 {
		t.AverageMicRate = micRateSum / float64(micRateN)
	}
	if micExcessRateN > 0 {
		t.AverageMicExcessRate = micExcessRateSum / float64(micExcessRateN)
	}
	return t
}
