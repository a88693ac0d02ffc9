package auth

import (
	"testing"
	"time"
)

func TestParseExpirationNever(t *testing.T) {
	for _, in := range []string{"", "never"} {
		got, err := ParseExpirationDuration(in)
		if err != nil {
			t.Errorf("ParseExpirationDuration(%q) error: %v", in, err)
		}
		if got != nil {
			t.Errorf("ParseExpirationDuration(%q) = %v, want nil", in, got)
		}
	}
}

func TestParseExpirationGoDuration(t *testing.T) {
	got, err := ParseExpirationDuration("24h")
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}
	want := time.Now().Add(24 * time.Hour)
	if got.Sub(want) > time.Minute || want.Sub(*got) > time.Minute {
		t.Errorf("24h expiration off: got %v", got)
	}
}

func TestParseExpirationDayShorthand(t *testing.T) {
	got, err := ParseExpirationDuration("30d")
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}
	want := time.Now().Add(30 * 24 * time.Hour)
	if got.Sub(want) > time.Minute || want.Sub(*got) > time.Minute {
		t.Errorf("30d expiration off: got %v", got)
	}

	if _, err := ParseExpirationDuration("2w"); err != nil {
		t.Errorf("weeks should parse: %v", err)
	}
}

func TestParseExpirationCustomDate(t *testing.T) {
	got, err := ParseExpirationDuration("25/12/2030")
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}
	if got.Year() != 2030 || got.Month() != time.December || got.Day() != 25 {
		t.Errorf("wrong date parsed: %v", got)
	}

	// Past dates are rejected.
	if _, err := ParseExpirationDuration("01/01/2020"); err == nil {
		t.Error("past date should be rejected")
	}
}

func TestParseExpirationInvalid(t *testing.T) {
	for _, in := range []string{"soon", "12x", "-5d"} {
		if _, err := ParseExpirationDuration(in); err == nil {
			t.Errorf("ParseExpirationDuration(%q) should fail", in)
		}
	}
}
