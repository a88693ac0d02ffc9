package bills

import "testing"

func TestFindChargeMatchesTermsInAnyOrder(t *testing.T) {
	items := []Charge{
		{Description: "Standing Charge", Amount: 45.0},
		{Description: "Excess MIC Demand Charge", Amount: 120.0, Quantity: 15.0, Rate: 8.0},
	}

	c, ok := FindCharge(items, "mic excess")
	if !ok {
		t.Fatal("expected 'mic excess' to match 'Excess MIC Demand Charge'")
	}
	if c.Amount != 120.0 {
		t.Errorf("expected amount 120, got %v", c.Amount)
	}
}

func TestFindChargeRequiresAllTerms(t *testing.T) {
	items := []Charge{
		{Description: "MIC Standard Charge", Amount: 60.0},
	}
	if _, ok := FindCharge(items, "mic excess"); ok {
		t.Error("'MIC Standard Charge' should not match 'mic excess'")
	}
}

func TestFindChargeFirstMatchWins(t *testing.T) {
	items := []Charge{
		{Description: "Capacity Charge", Amount: 1.0},
		{Description: "Capacity Charge Extra", Amount: 2.0},
	}
	c, _ := FindCharge(items, "capacity")
	if c.Amount != 1.0 {
		t.Errorf("expected first match, got amount %v", c.Amount)
	}
}

func TestFindChargeEmptyInputs(t *testing.T) {
	if _, ok := FindCharge(nil, "anything"); ok {
		t.Error("no items should never match")
	}
	if _, ok := FindCharge([]Charge{{Description: "x"}}, "   "); ok {
		t.Error("empty phrase should never match")
	}
}

func TestFindChargeExcluding(t *testing.T) {
	items := []Charge{
		{Description: "Capacity Charge Excess", Rate: 9.99},
		{Description: "Capacity Charge", Rate: 5.12},
	}
	c, ok := FindChargeExcluding(items, "capacity charge", "excess")
	if !ok {
		t.Fatal("expected non-excess capacity charge to match")
	}
	if c.Rate != 5.12 {
		t.Errorf("expected rate 5.12, got %v", c.Rate)
	}
}

func TestChargeAmount(t *testing.T) {
	items := []Charge{
		{Description: "Carbon Tax", Amount: "12.50"},
		{Description: "Commodity Cost", Amount: "not numeric"},
	}
	if got := ChargeAmount(items, "carbon"); got != 12.5 {
		t.Errorf("expected numeric-string amount coerced to 12.5, got %f", got)
	}
	if got := ChargeAmount(items, "commodity"); got != 0 {
		t.Errorf("expected non-numeric amount to yield 0, got %f", got)
	}
	if got := ChargeAmount(items, "no such line"); got != 0 {
		t.Errorf("expected 0 for no match, got %f", got)
	}
}
