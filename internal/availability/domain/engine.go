package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultClosedMinutes is how long restrooms stay closed at each end of a class.
const DefaultClosedMinutes = 15

// ErrInvalidClosedMinutes is returned for a negative closure length.
var ErrInvalidClosedMinutes = errors.New("closed minutes must not be negative")

// Status classifies the facility at an instant.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusClosed  Status = "CLOSED"
	StatusOutside Status = "OUTSIDE"
)

const (
	ReasonNoSchedule  = "No school today"
	ReasonBeforeHours = "Before school hours"
	ReasonAfterHours  = "After school hours"
	ReasonPassingTime = "Passing time"

	middleOfClassLabel = "middle of class"
)

// StatusResult is the classification of one instant.
type StatusResult struct {
	Status     Status
	Reason     string
	NextChange *time.Time
}

// Engine applies the closure rule to a resolved day. It holds only
// configuration and never mutates its inputs, so it is safe to share.
type Engine struct {
	closedMinutes int
	loc           *time.Location
}

// NewEngine creates an engine closing the first and last closedMinutes of
// every class block. A nil location means UTC.
func NewEngine(closedMinutes int, loc *time.Location) (Engine, error) {
	if closedMinutes < 0 {
		return Engine{}, ErrInvalidClosedMinutes
	}
	if loc == nil {
		loc = time.UTC
	}
	return Engine{closedMinutes: closedMinutes, loc: loc}, nil
}

func (e Engine) ClosedMinutes() int       { return e.closedMinutes }
func (e Engine) Location() *time.Location { return e.location() }
func (e Engine) closedFor() time.Duration { return time.Duration(e.closedMinutes) * time.Minute }

func (e Engine) location() *time.Location {
	if e.loc == nil {
		return time.UTC
	}
	return e.loc
}

// Classify returns the status at now for the given blocks.
//
// Blocks are scanned in the order given and the first block containing now
// wins, so overlapping blocks resolve by list order.
func (e Engine) Classify(now time.Time, blocks []TimeBlock) StatusResult {
	if len(blocks) == 0 {
		return StatusResult{Status: StatusOutside, Reason: ReasonNoSchedule}
	}

	loc := e.location()
	now = now.In(loc)

	dayStart := blocks[0].Start.On(now, loc)
	dayEnd := blocks[len(blocks)-1].End.On(now, loc)

	if now.Before(dayStart) {
		return StatusResult{Status: StatusOutside, Reason: ReasonBeforeHours, NextChange: &dayStart}
	}
	if !now.Before(dayEnd) {
		return StatusResult{Status: StatusOutside, Reason: ReasonAfterHours}
	}

	closedFor := e.closedFor()
	for _, b := range blocks {
		start, end := b.On(now, loc)
		if now.Before(start) || !now.Before(end) {
			continue
		}

		if !b.IsClass {
			return StatusResult{Status: StatusOpen, Reason: b.Label, NextChange: &end}
		}

		closedUntil := start.Add(closedFor)
		closedFrom := end.Add(-closedFor)
		if now.Before(closedUntil) {
			return StatusResult{
				Status:     StatusClosed,
				Reason:     fmt.Sprintf("%s: first %d min", b.Label, e.closedMinutes),
				NextChange: &closedUntil,
			}
		}
		if !now.Before(closedFrom) {
			return StatusResult{
				Status:     StatusClosed,
				Reason:     fmt.Sprintf("%s: last %d min", b.Label, e.closedMinutes),
				NextChange: &end,
			}
		}
		return StatusResult{
			Status:     StatusOpen,
			Reason:     fmt.Sprintf("%s: %s", b.Label, middleOfClassLabel),
			NextChange: &closedFrom,
		}
	}

	// Between blocks.
	for _, b := range blocks {
		start := b.Start.On(now, loc)
		if now.Before(start) {
			return StatusResult{Status: StatusOpen, Reason: ReasonPassingTime, NextChange: &start}
		}
	}

	return StatusResult{Status: StatusOpen, Reason: ReasonPassingTime}
}
