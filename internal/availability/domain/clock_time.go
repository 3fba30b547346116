package domain

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	hour   int
	minute int
}

// NewClockTime creates a ClockTime, rejecting out-of-range values.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("time of day out of range: %02d:%02d", hour, minute)
	}
	return ClockTime{hour: hour, minute: minute}, nil
}

// MustClockTime is like NewClockTime but panics on invalid input.
func MustClockTime(hour, minute int) ClockTime {
	c, err := NewClockTime(hour, minute)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseClockTime parses a 24-hour "HH:MM" value.
func ParseClockTime(value string) (ClockTime, error) {
	parsed, err := time.Parse(clockLayout, value)
	if err != nil {
		return ClockTime{}, err
	}
	return ClockTime{hour: parsed.Hour(), minute: parsed.Minute()}, nil
}

func (c ClockTime) Hour() int   { return c.hour }
func (c ClockTime) Minute() int { return c.minute }

// String formats the time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// On places the time of day on the calendar date of day, in loc.
func (c ClockTime) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, loc)
}

// Before reports whether c is earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.minutes() < other.minutes()
}

// Sub returns the duration from other to c within the same day.
func (c ClockTime) Sub(other ClockTime) time.Duration {
	return time.Duration(c.minutes()-other.minutes()) * time.Minute
}

func (c ClockTime) minutes() int {
	return c.hour*60 + c.minute
}
