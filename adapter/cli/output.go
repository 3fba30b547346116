package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides --json.
func SetJSONOutput(enabled bool) {
	jsonOutput = enabled
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const atLocalLayout = "2006-01-02T15:04"

// ParseAt reads an --at value: RFC 3339, or a local "YYYY-MM-DDTHH:MM" in
// the school time zone. Empty means now.
func ParseAt(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(atLocalLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q, use RFC 3339 or YYYY-MM-DDTHH:MM", value)
	}
	return t, nil
}
