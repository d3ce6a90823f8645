package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidValue is returned when a provider attribute cannot be coerced.
var ErrInvalidValue = errors.New("invalid value")

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ToFlag converts a provider boolean attribute.
// Only "true" (any case) is true; every other spelling, including "1", is false.
func ToFlag(val string) bool {
	return strings.EqualFold(strings.TrimSpace(val), "true")
}

// ToAmount converts a monetary attribute to a finite, non-negative float64.
func ToAmount(val string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, val)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidValue, val)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidValue, val)
	}
	return f, nil
}

// ToCount converts a quantity attribute to a non-negative int.
func ToCount(val string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, val)
	}
	if i < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidValue, val)
	}
	return i, nil
}

// ToTimestamp converts a date-like attribute to a UTC time.
func ToTimestamp(val string) (time.Time, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrInvalidValue)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidValue, val)
}
