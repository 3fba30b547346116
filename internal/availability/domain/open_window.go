package domain

import (
	"fmt"
	"sort"
	"time"
)

// OpenWindow is an interval of the day during which restrooms are open.
type OpenWindow struct {
	Start time.Time
	End   time.Time
	Label string
}

// Duration returns the window length.
func (w OpenWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// OpenWindows enumerates the open intervals of now's day, sorted by start.
// Empty or negative intervals, such as the middle of a class no longer than
// twice the closure length, are omitted.
func (e Engine) OpenWindows(now time.Time, blocks []TimeBlock) []OpenWindow {
	windows := make([]OpenWindow, 0, len(blocks)*2)
	if len(blocks) == 0 {
		return windows
	}

	loc := e.location()
	now = now.In(loc)
	closedFor := e.closedFor()

	add := func(start, end time.Time, label string) {
		if end.After(start) {
			windows = append(windows, OpenWindow{Start: start, End: end, Label: label})
		}
	}

	for i, b := range blocks {
		start, end := b.On(now, loc)
		if b.IsClass {
			add(start.Add(closedFor), end.Add(-closedFor), fmt.Sprintf("%s (%s)", b.Label, middleOfClassLabel))
		} else {
			add(start, end, b.Label)
		}

		if i < len(blocks)-1 {
			add(end, blocks[i+1].Start.On(now, loc), ReasonPassingTime)
		}
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}
