package bills

import (
	"strconv"
	"strings"
	"time"
)

// fieldPaths maps each logical bill field to its ordered candidate paths.
// The first path that resolves to a non-nil, non-empty value wins. Keeping
// the fallback order in one table makes it auditable and testable per field,
// instead of being duck-typed at every call site.
var fieldPaths = map[string][]string{
	"bill_date": {
		"summary.bill_date",
		"enhanced_summary.bill_date",
		"raw_data.billSummary.billDate",
		"raw_data.billingPeriod.endDate",
		"upload_date",
		"uploaded_at",
	},
	"period_start": {
		"enhanced_summary.billing_period_start",
		"summary.billing_period_start",
		"raw_data.billingPeriod.startDate",
		"raw_data.billSummary.billingPeriodStartDate",
	},
	"period_end": {
		"enhanced_summary.billing_period_end",
		"summary.billing_period_end",
		"raw_data.billingPeriod.endDate",
		"raw_data.billSummary.billingPeriodEndDate",
	},
	"supplier": {
		"summary.supplier",
		"enhanced_summary.supplier",
		"raw_data.supplier",
		"raw_data.billSummary.supplierName",
	},
	"meter_number": {
		"summary.meter_number",
		"raw_data.meterDetails.meterNumber",
		"raw_data.billSummary.meterNumber",
	},
	"mprn": {
		"summary.mprn",
		"raw_data.meterDetails.mprn",
		"raw_data.billSummary.mprn",
	},
	"gprn": {
		"summary.gprn",
		"raw_data.meterDetails.gprn",
		"raw_data.billSummary.gprn",
	},
	"day_kwh": {
		"summary.day_kwh",
		"enhanced_summary.day_kwh",
		"raw_data.consumption.dayKwh",
		"raw_data.billSummary.dayUnits",
	},
	"night_kwh": {
		"summary.night_kwh",
		"enhanced_summary.night_kwh",
		"raw_data.consumption.nightKwh",
		"raw_data.billSummary.nightUnits",
	},
	"total_kwh": {
		"summary.total_kwh",
		"enhanced_summary.total_kwh",
		"raw_data.consumption.totalKwh",
		"raw_data.billSummary.totalUnits",
	},
	"total_cost": {
		"summary.total_cost",
		"summary.total_amount",
		"enhanced_summary.total_cost",
		"raw_data.billSummary.totalDue",
		"raw_data.billSummary.totalAmount",
	},
	"vat_amount": {
		"summary.vat_amount",
		"enhanced_summary.vat_amount",
		"raw_data.billSummary.vatAmount",
	},
	"mic_value": {
		"summary.mic_value",
		"enhanced_summary.mic_value",
		"raw_data.micDetails.micValue",
		"raw_data.billSummary.mic",
	},
	"max_demand": {
		"summary.max_demand",
		"enhanced_summary.max_demand",
		"raw_data.micDetails.maxDemand",
		"raw_data.billSummary.maxDemand",
	},
	"consumption_kwh": {
		"summary.consumption_kwh",
		"enhanced_summary.consumption_kwh",
		"raw_data.consumption.totalKwh",
		"raw_data.billSummary.consumptionKwh",
	},
	"units_consumed": {
		"summary.units_consumed",
		"raw_data.consumption.unitsConsumed",
		"raw_data.billSummary.unitsConsumed",
	},
	"conversion_factor": {
		"summary.conversion_factor",
		"raw_data.consumption.conversionFactor",
		"raw_data.billSummary.conversionFactor",
	},
	"standing_charge": {
		"summary.standing_charge",
		"enhanced_summary.standing_charge",
	},
	"electricity_tax": {
		"summary.electricity_tax",
		"enhanced_summary.electricity_tax",
	},
}

// Resolve walks the candidate paths in order and returns the first value that
// is neither nil nor an empty string. Missing intermediate keys never panic;
// a path through a non-map value simply fails to resolve. Returns nil when no
// candidate resolves.
func Resolve(view map[string]any, paths []string) any {
	for _, p := range paths {
		v := lookupPath(view, p)
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}

func lookupPath(m map[string]any, path string) any {
	cur := any(m)
	for _, seg := range strings.Split(path, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = node[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// resolveString resolves a logical field to a string, or def when nothing
// resolves or the value is not string-like.
func resolveString(view map[string]any, field, def string) string {
	v := Resolve(view, fieldPaths[field])
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return def
}

// resolveFloat resolves a logical field to a float64, defaulting to 0 so that
// downstream arithmetic is total-safe.
func resolveFloat(view map[string]any, field string) float64 {
	if v, ok := coerceFloat(Resolve(view, fieldPaths[field])); ok {
		return v
	}
	return 0
}

// coerceFloat converts JSON-shaped values (float64, int, numeric string) to a
// float64. The second return reports whether the value was numeric.
func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// dateLayouts are tried in order when parsing bill dates. Suppliers emit ISO
// timestamps, bare ISO dates, or Irish-format dd/mm/yyyy.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseDate parses a bill date string, returning the zero time when the value
// is empty or unparseable. Results are truncated to UTC midnight so that
// day-count arithmetic is exact.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

// isoDate formats a time as the ISO date key used throughout the ledger.
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
