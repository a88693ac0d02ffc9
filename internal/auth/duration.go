package auth

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ParseExpirationDuration parses a duration string or custom date and returns
// an expiration time. Supported formats:
//   - "never" or "" - no expiration (nil)
//   - any valid Go duration such as "24h" or "30m"
//   - "30d" / "2w" style day and week shorthands
//   - "02/01/2006" or "02/01/2006 15:04" custom dates
func ParseExpirationDuration(expiresIn string) (*time.Time, error) {
	if expiresIn == "" || expiresIn == "never" {
		return nil, nil
	}

	if dur, err := time.ParseDuration(expiresIn); err == nil {
		t := time.Now().Add(dur)
		return &t, nil
	}

	dateFormats := []string{
		"02/01/2006 15:04",
		"02/01/2006",
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, expiresIn); err == nil {
			if t.Before(time.Now()) {
				return nil, fmt.Errorf("expiration date must be in the future: %s", expiresIn)
			}
			return &t, nil
		}
	}

	re := regexp.MustCompile(`^(\d+)([dwh])$`)
	matches := re.FindStringSubmatch(expiresIn)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid expiration format: %s (use 'never', '30d', '2w', '24h', '25/12/2026', or a Go duration like '30m')", expiresIn)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number in expiration: %s", expiresIn)
	}

	var dur time.Duration
	switch matches[2] {
	case "d":
		dur = time.Duration(num) * 24 * time.Hour
	case "w":
		dur = time.Duration(num) * 7 * 24 * time.Hour
	case "h":
		dur = time.Duration(num) * time.Hour
	}

	t := time.Now().Add(dur)
	return &t, nil
}
