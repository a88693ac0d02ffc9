package bills

import "testing"

const sampleFlogasText = `
Flogas Natural Gas
Commercial Gas Statement

GPRN: 1234567
Billing Period: 01/02/2024 to 29/02/2024

Units Consumed: 480
Conversion Factor: 10.83
Consumption: 5,198.40 kWh

Commodity Cost: €310.20
Carbon Tax: €12.50
Standing Charge: €8.00
VAT: €43.80
Total Due: €410.65
`

func TestParseFlogasBillFromText(t *testing.T) {
	bill, err := ParseFlogasBillFromText(sampleFlogasText)
	if err != nil {
		t.Fatalf("ParseFlogasBillFromText failed: %v", err)
	}

	if bill.UtilityType != "gas" {
		t.Errorf("expected gas, got %q", bill.UtilityType)
	}
	if bill.Summary["gprn"] != "1234567" {
		t.Errorf("unexpected gprn %v", bill.Summary["gprn"])
	}
	if bill.Summary["billing_period_start"] != "2024-02-01" {
		t.Errorf("unexpected period start %v", bill.Summary["billing_period_start"])
	}
	if bill.Summary["billing_period_end"] != "2024-02-29" {
		t.Errorf("unexpected period end %v", bill.Summary["billing_period_end"])
	}
	if bill.Summary["units_consumed"] != 480.0 {
		t.Errorf("expected units 480, got %v", bill.Summary["units_consumed"])
	}
	if bill.Summary["conversion_factor"] != 10.83 {
		t.Errorf("expected conversion 10.83, got %v", bill.Summary["conversion_factor"])
	}
	if bill.Summary["consumption_kwh"] != 5198.40 {
		t.Errorf("expected consumption 5198.40, got %v", bill.Summary["consumption_kwh"])
	}
	if bill.Summary["total_cost"] != 410.65 {
		t.Errorf("expected total 410.65, got %v", bill.Summary["total_cost"])
	}

	if len(bill.LineItems) != 3 {
		t.Fatalf("expected 3 line items, got %d", len(bill.LineItems))
	}
}

func TestParsedFlogasBillNormalizes(t *testing.T) {
	bill, err := ParseFlogasBillFromText(sampleFlogasText)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bill.HotelID = "moxy"

	row, ok := NormalizeBill(*bill, 0)
	if !ok {
		t.Fatal("parsed gas bill should normalize")
	}
	if row.ConsumptionKWh != 5198.40 {
		t.Errorf("expected consumption 5198.40, got %f", row.ConsumptionKWh)
	}
	if row.CarbonTax != 12.5 {
		t.Errorf("expected carbon tax 12.5, got %f", row.CarbonTax)
	}
	if row.CommodityCost != 310.20 {
		t.Errorf("expected commodity 310.20, got %f", row.CommodityCost)
	}
}

func TestParserRegistry(t *testing.T) {
	for _, key := range []string{"esb", "flogas"} {
		p, ok := GetParser(key)
		if !ok {
			t.Fatalf("parser %q not registered", key)
		}
		if p.ParsePDF == nil || p.ParseText == nil {
			t.Errorf("parser %q missing functions", key)
		}
	}

	if _, ok := GetParser("nonexistent"); ok {
		t.Error("unknown parser key should not resolve")
	}

	keys := ListParsers()
	if len(keys) < 2 {
		t.Errorf("expected at least 2 registered parsers, got %v", keys)
	}
}
