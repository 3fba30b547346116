package domain

// Schedule is a snapshot of every day variant's rows, keyed by day key.
// Row order is significant and is preserved everywhere.
type Schedule map[DayKey][]BlockRecord

// NewSchedule returns a schedule with an empty row list for every day key.
func NewSchedule() Schedule {
	s := make(Schedule, len(DayKeys()))
	for _, key := range DayKeys() {
		s[key] = []BlockRecord{}
	}
	return s
}

// Day returns the rows for a day key.
func (s Schedule) Day(key DayKey) []BlockRecord {
	return s[key]
}

// BlockCount returns the number of rows across all days.
func (s Schedule) BlockCount() int {
	n := 0
	for _, rows := range s {
		n += len(rows)
	}
	return n
}

// Clone returns a deep copy.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for key, rows := range s {
		out[key] = append([]BlockRecord(nil), rows...)
	}
	return out
}

// Validate parses every row of every day and returns the first malformed entry.
func (s Schedule) Validate() error {
	for _, key := range DayKeys() {
		if _, err := ParseBlocks(key, s[key]); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSchedule is the bell schedule installed on first start.
func DefaultSchedule() Schedule {
	return Schedule{
		DayKeyMonday: {
			{Label: "Period 2", IsClass: true, Start: "08:10", End: "08:48"},
			{Label: "Period 3", IsClass: true, Start: "08:52", End: "09:30"},
			{Label: "Nutrition Break", IsClass: false, Start: "09:30", End: "09:38"},
			{Label: "Period 4", IsClass: true, Start: "09:40", End: "10:18"},
			{Label: "Period 5", IsClass: true, Start: "10:22", End: "11:00"},
			{Label: "Lunch", IsClass: false, Start: "11:05", End: "11:35"},
			{Label: "Period 6", IsClass: true, Start: "11:40", End: "12:18"},
			{Label: "Period 7", IsClass: true, Start: "12:22", End: "13:00"},
		},
		DayKeyTueFri: {
			{Label: "Study Skills/ELD", IsClass: true, Start: "08:10", End: "08:40"},
			{Label: "Period 2", IsClass: true, Start: "08:45", End: "09:35"},
			{Label: "Period 3", IsClass: true, Start: "09:40", End: "10:30"},
			{Label: "Nutrition Break", IsClass: false, Start: "10:35", End: "10:40"},
			{Label: "Period 4", IsClass: true, Start: "10:45", End: "11:35"},
			{Label: "Period 5", IsClass: true, Start: "11:40", End: "12:30"},
			{Label: "Lunch", IsClass: false, Start: "12:35", End: "13:05"},
			{Label: "Period 6", IsClass: true, Start: "13:10", End: "14:00"},
			{Label: "Period 7", IsClass: true, Start: "14:05", End: "14:55"},
		},
	}
}
