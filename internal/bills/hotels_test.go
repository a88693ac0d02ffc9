package bills

import (
	"os"
	"testing"
)

func TestDefaultHotels(t *testing.T) {
	hotels := Hotels()
	if len(hotels) != 3 {
		t.Fatalf("expected 3 default hotels, got %d", len(hotels))
	}

	h, ok := GetHotel("hiex")
	if !ok {
		t.Fatal("expected hiex to exist")
	}
	if h.Name != "Holiday Inn Express Dublin City Centre" {
		t.Errorf("unexpected name %q", h.Name)
	}

	if _, ok := GetHotel("nope"); ok {
		t.Error("unknown key should not resolve")
	}
	if got := HotelName("nope"); got != "Unknown" {
		t.Errorf("expected Unknown fallback, got %q", got)
	}
}

func TestHotelsEnvOverride(t *testing.T) {
	os.Setenv(hotelsEnv, `[{"key":"test","name":"Test Hotel","upstreamId":"t1"}]`)
	defer os.Unsetenv(hotelsEnv)

	hotels := Hotels()
	if len(hotels) != 1 || hotels[0].Key != "test" {
		t.Errorf("env override not applied: %+v", hotels)
	}
}

func TestHotelsEnvOverrideMalformed(t *testing.T) {
	os.Setenv(hotelsEnv, "{broken")
	defer os.Unsetenv(hotelsEnv)

	if len(Hotels()) != 3 {
		t.Error("malformed override should fall back to defaults")
	}
}
