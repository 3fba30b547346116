package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownGroup is returned for a group other than girls or boys.
	ErrUnknownGroup = errors.New("unknown tally group")
	// ErrInvalidDelta is returned for a bump other than -1 or +1.
	ErrInvalidDelta = errors.New("delta must be -1 or +1")
)

// Group is a counted population.
type Group string

const (
	GroupGirls Group = "girls"
	GroupBoys  Group = "boys"
)

// Groups returns every group in display order.
func Groups() []Group {
	return []Group{GroupGirls, GroupBoys}
}

// ParseGroup parses a group name, case-insensitively.
func ParseGroup(value string) (Group, error) {
	g := Group(strings.ToLower(strings.TrimSpace(value)))
	if !g.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGroup, value)
	}
	return g, nil
}

// IsValid reports whether g is a known group.
func (g Group) IsValid() bool {
	return g == GroupGirls || g == GroupBoys
}

// ValidateDelta accepts only single-step changes.
func ValidateDelta(delta int) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDelta, delta)
	}
	return nil
}
