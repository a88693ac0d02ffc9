package bills

// UtilityType identifies which utility a bill belongs to. Water exists in the
// type set but has no normalization path yet.
type UtilityType string

const (
	UtilityElectricity UtilityType = "electricity"
	UtilityGas         UtilityType = "gas"
	UtilityWater       UtilityType = "water"
)

// RawBill is one ingested utility bill as returned by the upstream bills API
// or produced by a supplier PDF parser. Suppliers disagree on where fields
// live: pre-extracted values sit under Summary or EnhancedSummary, and the
// original extraction output sits under RawData in supplier-specific
// nestings. The field resolver handles the fallback order; consumers should
// not reach into these maps directly.
type RawBill struct {
	ID              string         `json:"id,omitempty"`
	UtilityType     string         `json:"utility_type"`
	Filename        string         `json:"filename,omitempty"`
	UploadDate      string         `json:"upload_date,omitempty"`
	UploadedAt      string         `json:"uploaded_at,omitempty"`
	HotelID         string         `json:"hotel_id,omitempty"`
	Summary         map[string]any `json:"summary,omitempty"`
	EnhancedSummary map[string]any `json:"enhanced_summary,omitempty"`
	RawData         map[string]any `json:"raw_data,omitempty"`
	Charges         []Charge       `json:"charges,omitempty"`
	LineItems       []Charge       `json:"lineItems,omitempty"`
}

// Charge is one itemized line on a bill. Amount, Quantity and Rate are left
// untyped because suppliers emit them as numbers, numeric strings, or omit
// them entirely; use coerceFloat before doing arithmetic.
type Charge struct {
	Description string `json:"description"`
	Amount      any    `json:"amount,omitempty"`
	Quantity    any    `json:"quantity,omitempty"`
	Rate        any    `json:"rate,omitempty"`
}

// Type returns the bill's utility type, normalized to lower case.
func (b *RawBill) Type() UtilityType {
	switch b.UtilityType {
	case "electricity", "Electricity", "ELECTRICITY":
		return UtilityElectricity
	case "gas", "Gas", "GAS":
		return UtilityGas
	case "water", "Water", "WATER":
		return UtilityWater
	}
	return UtilityType(b.UtilityType)
}

// chargeItems returns whichever itemized array the bill carries. Electricity
// bills usually use `charges`, gas bills `lineItems`, but some suppliers mix
// the two.
func (b *RawBill) chargeItems() []Charge {
	if len(b.Charges) > 0 {
		return b.Charges
	}
	return b.LineItems
}

// view exposes the bill as a single nested map so the field resolver can walk
// dotted paths across the top-level scalars and all three summary shapes.
func (b *RawBill) view() map[string]any {
	m := map[string]any{
		"id":           b.ID,
		"utility_type": b.UtilityType,
		"filename":     b.Filename,
		"upload_date":  b.UploadDate,
		"uploaded_at":  b.UploadedAt,
		"hotel_id":     b.HotelID,
	}
	if b.Summary != nil {
		m["summary"] = b.Summary
	}
	if b.EnhancedSummary != nil {
		m["enhanced_summary"] = b.EnhancedSummary
	}
	if b.RawData != nil {
		m["raw_data"] = b.RawData
	}
	return m
}

// Row is one bill flattened to the fixed shape consumed by tables, charts and
// the CSV export. Electricity-only and gas-only fields are zero-valued for
// the other type; every numeric defaults to 0 when no source field resolves
// so downstream arithmetic never sees a null.
type Row struct {
	ID            string      `json:"id"`
	Type          UtilityType `json:"type"`
	HotelID       string      `json:"hotel_id"`
	HotelName     string      `json:"hotel_name"`
	Date          string      `json:"date"`
	BillingPeriod string      `json:"billing_period"`
	Supplier      string      `json:"supplier"`
	MeterNumber   string      `json:"meter_number"`
	TotalCost     float64     `json:"total_cost"`
	VATAmount     float64     `json:"vat_amount"`
	Filename      string      `json:"filename"`

	// Electricity only.
	MPRN            string  `json:"mprn,omitempty"`
	DayKWh          float64 `json:"day_kwh"`
	NightKWh        float64 `json:"night_kwh"`
	TotalKWh        float64 `json:"total_kwh"`
	MICValue        float64 `json:"mic_value"`
	MaxDemand       float64 `json:"max_demand"`
	MICExcess       float64 `json:"mic_excess"`
	MICExcessCost   float64 `json:"mic_excess_cost"`
	MICExcessRate   float64 `json:"mic_excess_rate"`
	MICStandardRate float64 `json:"mic_standard_rate"`
	ElectricityTax  float64 `json:"electricity_tax"`

	// Gas only.
	GPRN             string  `json:"gprn,omitempty"`
	ConsumptionKWh   float64 `json:"consumption_kwh"`
	UnitsConsumed    float64 `json:"units_consumed"`
	ConversionFactor float64 `json:"conversion_factor"`
	CarbonTax        float64 `json:"carbon_tax"`
	CommodityCost    float64 `json:"commodity_cost"`

	// Shared by both types.
	StandingCharge float64 `json:"standing_charge"`

	// Source keeps a back-reference to the bill this row was derived from.
	Source *RawBill `json:"-"`
}
