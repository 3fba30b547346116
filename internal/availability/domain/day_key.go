package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrUnknownDayKey is returned for day keys outside the supported set.
var ErrUnknownDayKey = errors.New("unknown day key")

// DayKey selects which schedule variant applies to a date.
type DayKey string

const (
	DayKeyMonday DayKey = "monday"
	DayKeyTueFri DayKey = "tue-fri"
)

// DayKeys returns every supported day key in display order.
func DayKeys() []DayKey {
	return []DayKey{DayKeyMonday, DayKeyTueFri}
}

// ParseDayKey normalizes and validates a day key.
func ParseDayKey(value string) (DayKey, error) {
	key := DayKey(strings.ToLower(strings.TrimSpace(value)))
	if !key.IsValid() {
		return "", ErrUnknownDayKey
	}
	return key, nil
}

// IsValid reports whether the key is one of the supported variants.
func (k DayKey) IsValid() bool {
	switch k {
	case DayKeyMonday, DayKeyTueFri:
		return true
	default:
		return false
	}
}

// String returns the string representation of the day key.
func (k DayKey) String() string {
	return string(k)
}

// DisplayName returns the heading used when listing the variant.
func (k DayKey) DisplayName() string {
	switch k {
	case DayKeyMonday:
		return "Monday (Modified)"
	case DayKeyTueFri:
		return "Tuesday–Friday"
	default:
		return string(k)
	}
}

// DayKeyFor maps a weekday to its schedule variant.
// Saturday and Sunday have no schedule.
func DayKeyFor(weekday time.Weekday) (DayKey, bool) {
	switch weekday {
	case time.Monday:
		return DayKeyMonday, true
	case time.Tuesday, time.Wednesday, time.Thursday, time.Friday:
		return DayKeyTueFri, true
	default:
		return "", false
	}
}
