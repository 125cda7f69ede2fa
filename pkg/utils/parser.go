package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when a value cannot be read as a timestamp
var ErrUnparseable = errors.New("unparseable timestamp")

// ParseTimestamp reads a backend timestamp. Values without an explicit zone are
// interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrUnparseable
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	for _, layout := range []string{ISO_LOCAL_LAYOUT, ISO_LOCAL_SPACE_LAYOUT, ISO_DATE_LAYOUT} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.Parse(HTTP_DATE_LAYOUT, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC1123Z, value); err == nil {
		return t, nil
	}

	return time.Time{}, ErrUnparseable
}

// ParseDay parses a YYYY-MM-DD value at midnight in loc
func ParseDay(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(ISO_DATE_LAYOUT, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseNumber converts a free-form value the way a loose numeric coercion would:
// surrounding blanks are ignored and an empty string is zero. The second result
// is false when the value is not a finite number.
func ParseNumber(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// FormatNumber renders a number without trailing zeros ("2024", "1.5")
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
