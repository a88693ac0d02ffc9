package bills

import (
	"testing"
	"time"
)

func TestResolveFallbackOrder(t *testing.T) {
	view := map[string]any{
		"summary": map[string]any{
			"supplier": "Electric Ireland",
		},
		"raw_data": map[string]any{
			"supplier": "SHOULD NOT WIN",
		},
	}

	got := Resolve(view, fieldPaths["supplier"])
	if got != "Electric Ireland" {
		t.Errorf("expected summary.supplier to win, got %v", got)
	}
}

func TestResolveSkipsNilAndEmptyString(t *testing.T) {
	view := map[string]any{
		"summary": map[string]any{
			"supplier": "",
		},
		"enhanced_summary": map[string]any{
			"supplier": nil,
		},
		"raw_data": map[string]any{
			"supplier": "Flogas",
		},
	}

	got := Resolve(view, fieldPaths["supplier"])
	if got != "Flogas" {
		t.Errorf("expected empty and nil candidates skipped, got %v", got)
	}

	// Zero is a real value, not a miss.
	view = map[string]any{
		"summary": map[string]any{"day_kwh": float64(0)},
	}
	if got := Resolve(view, fieldPaths["day_kwh"]); got != float64(0) {
		t.Errorf("expected numeric zero to resolve, got %v", got)
	}
}

func TestResolveThroughNonMapDoesNotPanic(t *testing.T) {
	view := map[string]any{
		"raw_data": "not a map",
	}
	if got := Resolve(view, []string{"raw_data.billSummary.totalDue"}); got != nil {
		t.Errorf("expected nil through non-map node, got %v", got)
	}
	if got := Resolve(view, []string{"missing.entirely"}); got != nil {
		t.Errorf("expected nil for missing path, got %v", got)
	}
}

func TestResolveNestedRawData(t *testing.T) {
	view := map[string]any{
		"raw_data": map[string]any{
			"billSummary": map[string]any{
				"totalDue": 1234.56,
			},
		},
	}
	if got := resolveFloat(view, "total_cost"); got != 1234.56 {
		t.Errorf("expected 1234.56, got %f", got)
	}
}

func TestCoerceFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{float64(42.5), 42.5, true},
		{int(7), 7, true},
		{int64(9), 9, true},
		{"1,234.56", 1234.56, true},
		{"  88 ", 88, true},
		{"", 0, false},
		{"n/a", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got, ok := coerceFloat(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("coerceFloat(%v) = (%f, %v), want (%f, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-01-20T10:30:00Z",
		"2024-01-20T10:30:00",
		"2024-01-20",
		"20/01/2024",
	} {
		if got := parseDate(s); !got.Equal(want) {
			t.Errorf("parseDate(%q) = %v, want %v", s, got, want)
		}
	}

	if got := parseDate(""); !got.IsZero() {
		t.Errorf("expected zero time for empty string, got %v", got)
	}
	if got := parseDate("not-a-date"); !got.IsZero() {
		t.Errorf("expected zero time for garbage, got %v", got)
	}
}
