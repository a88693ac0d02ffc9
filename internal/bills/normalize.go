package bills

import "fmt"

// periodDisplayLayout is the human-facing date format used in the billing
// period column.
const periodDisplayLayout = "02 Jan 2006"

// NormalizeBill flattens one raw bill into a Row. The boolean reports whether
// a row was produced: water and unknown utility types are skipped, since no
// normalization path exists for them yet. Normalization never fails on
// malformed input; unresolvable fields degrade to zero values.
func NormalizeBill(raw RawBill, seq int) (Row, bool) {
	typ := raw.Type()
	if typ != UtilityElectricity && typ != UtilityGas {
		return Row{}, false
	}

	src := raw
	v := raw.view()
	row := Row{
		ID:            rowID(&raw, seq),
		Type:          typ,
		HotelID:       raw.HotelID,
		HotelName:     HotelName(raw.HotelID),
		Date:          resolveString(v, "bill_date", ""),
		BillingPeriod: billingPeriodDisplay(v),
		Supplier:      resolveString(v, "supplier", "Unknown"),
		MeterNumber:   resolveString(v, "meter_number", ""),
		TotalCost:     resolveFloat(v, "total_cost"),
		VATAmount:     resolveFloat(v, "vat_amount"),
		Filename:      raw.Filename,
		Source:        &src,
	}

	items := raw.chargeItems()
	switch typ {
	case UtilityElectricity:
		normalizeElectricity(&row, v, items)
	case UtilityGas:
		normalizeGas(&row, v, items)
	}
	return row, true
}

func normalizeElectricity(row *Row, v map[string]any, items []Charge) {
	row.MPRN = resolveString(v, "mprn", "")
	row.DayKWh = resolveFloat(v, "day_kwh")
	row.NightKWh = resolveFloat(v, "night_kwh")
	row.TotalKWh = resolveFloat(v, "total_kwh")
	if row.TotalKWh == 0 {
		row.TotalKWh = row.DayKWh + row.NightKWh
	}

	row.MICValue = resolveFloat(v, "mic_value")
	row.MaxDemand = resolveFloat(v, "max_demand")

	// An explicit excess line item is the preferred source for the excess
	// quantity, rate and cost. Without one, fall back to the computed
	// difference with zero cost.
	exc, ok := FindCharge(items, "mic excess")
	if !ok {
		exc, ok = FindCharge(items, "excess charge")
	}
	if ok {
		row.MICExcess, _ = coerceFloat(exc.Quantity)
		row.MICExcessRate, _ = coerceFloat(exc.Rate)
		row.MICExcessCost, _ = coerceFloat(exc.Amount)
	} else {
		row.MICExcess = row.MaxDemand - row.MICValue
		row.MICExcessCost = 0
	}
	if row.MICExcess < 0 {
		row.MICExcess = 0
	}

	// Standard capacity rate comes from a non-excess capacity/MIC line.
	std, ok := FindChargeExcluding(items, "capacity charge", "excess")
	if !ok {
		std, ok = FindChargeExcluding(items, "mic charge", "excess")
	}
	if ok {
		if r, numeric := coerceFloat(std.Rate); numeric && r != 0 {
			row.MICStandardRate = r
		} else if a, numeric := coerceFloat(std.Amount); numeric {
			row.MICStandardRate = a
		}
	}

	row.StandingCharge = resolveFloat(v, "standing_charge")
	if row.StandingCharge == 0 {
		row.StandingCharge = ChargeAmount(items, "standing charge")
	}
	row.ElectricityTax = resolveFloat(v, "electricity_tax")
	if row.ElectricityTax == 0 {
		row.ElectricityTax = ChargeAmount(items, "electricity tax")
	}
}

func normalizeGas(row *Row, v map[string]any, items []Charge) {
	row.GPRN = resolveString(v, "gprn", "")
	row.ConsumptionKWh = resolveFloat(v, "consumption_kwh")
	row.UnitsConsumed = resolveFloat(v, "units_consumed")
	row.ConversionFactor = resolveFloat(v, "conversion_factor")
	row.CarbonTax = ChargeAmount(items, "carbon")
	row.StandingCharge = ChargeAmount(items, "standing")
	row.CommodityCost = ChargeAmount(items, "commodity")
}

// NormalizeAll flattens every supported bill, preserving input order. Bills
// of unsupported types contribute no row.
func NormalizeAll(raws []RawBill) []Row {
	rows := make([]Row, 0, len(raws))
	for i, raw := range raws {
		if row, ok := NormalizeBill(raw, i); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// billingPeriodDisplay renders "start - end" using resolved period bounds, or
// "N/A" when either bound is missing or unparseable.
func billingPeriodDisplay(v map[string]any) string {
	start := parseDate(resolveString(v, "period_start", ""))
	end := parseDate(resolveString(v, "period_end", ""))
	if start.IsZero() || end.IsZero() {
		return "N/A"
	}
	return start.Format(periodDisplayLayout) + " - " + end.Format(periodDisplayLayout)
}

func rowID(b *RawBill, seq int) string {
	if b.ID != "" {
		return b.ID
	}
	if b.Filename != "" {
		return b.Filename
	}
	return fmt.Sprintf("%s-%s-%d", b.HotelID, b.UtilityType, seq)
}
