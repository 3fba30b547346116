// Package schedulecsv reads and writes the schedule spreadsheet format:
// a header row "day,label,is_class,start,end" followed by one row per block.
package schedulecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
)

// Header is the column order written by Encode.
var Header = []string{"day", "label", "is_class", "start", "end"}

// ErrInvalidCSV is returned for input that cannot be read as a schedule.
var ErrInvalidCSV = errors.New("invalid schedule csv")

// Encode writes every day in day-key order, rows in stored order.
func Encode(w io.Writer, schedule domain.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, key := range domain.DayKeys() {
		for _, r := range schedule[key] {
			isClass := "0"
			if r.IsClass {
				isClass = "1"
			}
			if err := cw.Write([]string{key.String(), r.Label, isClass, r.Start, r.End}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads a schedule. Columns are matched by header name in any order.
// Rows whose day is not a known day key are skipped, fields are trimmed, and
// an empty is_class counts as a class. Times are not validated here.
func Decode(r io.Reader) (domain.Schedule, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := columns["day"]; !ok {
		return nil, fmt.Errorf("%w: missing day column", ErrInvalidCSV)
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	schedule := domain.NewSchedule()
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		key, err := domain.ParseDayKey(field(row, "day"))
		if err != nil {
			continue
		}

		isClass := true
		if raw := field(row, "is_class"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: is_class %q is not an integer", ErrInvalidCSV, line, raw)
			}
			isClass = n != 0
		}

		schedule[key] = append(schedule[key], domain.BlockRecord{
			Label:   field(row, "label"),
			IsClass: isClass,
			Start:   field(row, "start"),
			End:     field(row, "end"),
		})
	}
	return schedule, nil
}
