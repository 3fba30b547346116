package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedScheduleEntry matches any MalformedEntryError via errors.Is.
var ErrMalformedScheduleEntry = errors.New("malformed schedule entry")

// MalformedEntryError identifies a row whose start or end is not "HH:MM".
type MalformedEntryError struct {
	DayKey DayKey
	Index  int
	Field  string
	Value  string
	Err    error
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed schedule entry %s[%d]: %s %q is not HH:MM", e.DayKey, e.Index, e.Field, e.Value)
}

func (e *MalformedEntryError) Is(target error) bool {
	return target == ErrMalformedScheduleEntry
}

func (e *MalformedEntryError) Unwrap() error {
	return e.Err
}

// ParseBlocks resolves a day's rows in order. It fails on the first row
// whose start or end cannot be parsed; no default is substituted.
func ParseBlocks(key DayKey, records []BlockRecord) ([]TimeBlock, error) {
	blocks := make([]TimeBlock, 0, len(records))
	for i, r := range records {
		start, err := ParseClockTime(r.Start)
		if err != nil {
			return nil, &MalformedEntryError{DayKey: key, Index: i, Field: "start", Value: r.Start, Err: err}
		}
		end, err := ParseClockTime(r.End)
		if err != nil {
			return nil, &MalformedEntryError{DayKey: key, Index: i, Field: "end", Value: r.End, Err: err}
		}
		blocks = append(blocks, TimeBlock{
			Label:   r.Label,
			IsClass: r.IsClass,
			Start:   start,
			End:     end,
		})
	}
	return blocks, nil
}

// ResolveDay returns the blocks that apply on date's weekday.
// Weekends resolve to an empty list. Only the weekday of date is used, so
// callers should convert the instant into the facility's timezone first.
func ResolveDay(date time.Time, schedule Schedule) ([]TimeBlock, error) {
	key, ok := DayKeyFor(date.Weekday())
	if !ok {
		return []TimeBlock{}, nil
	}
	return ParseBlocks(key, schedule[key])
}
