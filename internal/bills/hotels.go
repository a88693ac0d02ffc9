package bills

import (
	"encoding/json"
	"os"
)

// HotelDescriptor identifies one managed property and how to query the
// upstream bills API for it.
type HotelDescriptor struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	UpstreamID string `json:"upstreamId"`
	City       string `json:"city,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

const hotelsEnv = "HOTELFM_HOTELS_JSON"

func defaultHotels() []HotelDescriptor {
	return []HotelDescriptor{
		{
			Key:        "hiex",
			Name:       "Holiday Inn Express Dublin City Centre",
			UpstreamID: "hiex",
			City:       "Dublin",
		},
		{
			Key:        "moxy",
			Name:       "Moxy Dublin Docklands",
			UpstreamID: "moxy",
			City:       "Dublin",
		},
		{
			Key:        "hida",
			Name:       "Holiday Inn Dublin Airport",
			UpstreamID: "hida",
			City:       "Dublin",
		},
	}
}

// Hotels returns the managed hotel list, overridable via HOTELFM_HOTELS_JSON.
// Malformed or empty overrides fall back to the defaults.
func Hotels() []HotelDescriptor {
	raw := os.Getenv(hotelsEnv)
	if raw == "" {
		return defaultHotels()
	}
	var out []HotelDescriptor
	if err := json.Unmarshal([]byte(raw), &out); err != nil || len(out) == 0 {
		return defaultHotels()
	}
	return out
}

// GetHotel looks up a hotel by key.
func GetHotel(key string) (HotelDescriptor, bool) {
	for _, h := range Hotels() {
		if h.Key == key {
			return h, true
		}
	}
	return HotelDescriptor{}, false
}

// HotelName returns the display name for a hotel key, or "Unknown" for keys
// outside the managed set.
func HotelName(key string) string {
	if h, ok := GetHotel(key); ok {
		return h.Name
	}
	return "Unknown"
}
