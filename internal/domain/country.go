package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Country is the normalised view of a country-lookup response.
type Country struct {
	Name       string
	Region     string
	Capital    string // "N/A" when the provider lists none
	Population float64
	Lat        float64
	Lon        float64
	Currencies string // "Name (symbol)" pairs joined with ", ", or "N/A"
	Timezone   string // first listed offset, e.g. "UTC+09:00"
}

// Weather is the current conditions at a coordinate, in metric units.
type Weather struct {
	Temperature float64
	Description string
}

// LocalTime returns the wall-clock time "HH:MM" at a fixed UTC offset of the
// form "UTC", "UTC+05:30" or "UTC-04:00".
func LocalTime(offset string, now time.Time) (string, error) {
	d, err := parseUTCOffset(offset)
	if err != nil {
		return "", err
	}
	return now.UTC().Add(d).Format("15:04"), nil
}

func parseUTCOffset(offset string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(offset, "UTC")
	if !ok {
		return 0, fmt.Errorf("invalid UTC offset %q", offset)
	}
	if rest == "" {
		return 0, nil
	}

	sign := time.Duration(1)
	switch rest[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("invalid UTC offset %q", offset)
	}

	hh, mm, _ := strings.Cut(rest[1:], ":")
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid UTC offset %q: %w", offset, err)
	}
	var minutes int
	if mm != "" {
		if minutes, err = strconv.Atoi(mm); err != nil {
			return 0, fmt.Errorf("invalid UTC offset %q: %w", offset, err)
		}
	}
	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}
