package domain

import (
	"strings"
	"time"
)

// BlockRecord is a schedule row as it is stored and edited.
// Start and End are raw "HH:MM" strings; they are only parsed on resolution.
type BlockRecord struct {
	Label   string
	IsClass bool
	Start   string
	End     string
}

// Normalized returns a copy with surrounding whitespace removed.
func (r BlockRecord) Normalized() BlockRecord {
	return BlockRecord{
		Label:   strings.TrimSpace(r.Label),
		IsClass: r.IsClass,
		Start:   strings.TrimSpace(r.Start),
		End:     strings.TrimSpace(r.End),
	}
}

// TimeBlock is one contiguous, labeled period of a resolved day.
type TimeBlock struct {
	Label   string
	IsClass bool
	Start   ClockTime
	End     ClockTime
}

// Duration returns the block length. Degenerate blocks yield zero or less.
func (b TimeBlock) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// On returns the block's start and end instants on the given date.
func (b TimeBlock) On(day time.Time, loc *time.Location) (time.Time, time.Time) {
	return b.Start.On(day, loc), b.End.On(day, loc)
}

// Record converts the block back into its editable form.
func (b TimeBlock) Record() BlockRecord {
	return BlockRecord{
		Label:   b.Label,
		IsClass: b.IsClass,
		Start:   b.Start.String(),
		End:     b.End.String(),
	}
}
