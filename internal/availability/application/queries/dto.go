package queries

import (
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
)

// StatusDTO is the classification of one instant.
type StatusDTO struct {
	Status        string     `json:"status"`
	Reason        string     `json:"reason"`
	NextChange    *time.Time `json:"next_change,omitempty"`
	At            time.Time  `json:"at"`
	DayKey        string     `json:"day_key,omitempty"`
	ClosedMinutes int        `json:"closed_minutes"`
}

// WindowDTO is one open interval.
type WindowDTO struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Label   string    `json:"label"`
	Minutes int       `json:"minutes"`
}

// WindowsDTO lists the open intervals of a day.
type WindowsDTO struct {
	Date          string      `json:"date"`
	DayKey        string      `json:"day_key,omitempty"`
	ClosedMinutes int         `json:"closed_minutes"`
	Windows       []WindowDTO `json:"windows"`
}

// BlockDTO is one schedule row.
type BlockDTO struct {
	Label   string `json:"label"`
	IsClass bool   `json:"is_class"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// DayDTO is every row of one day variant.
type DayDTO struct {
	Key    string     `json:"key"`
	Name   string     `json:"name"`
	Blocks []BlockDTO `json:"blocks"`
}

// ScheduleDTO is the whole schedule in day-key order.
type ScheduleDTO struct {
	Days []DayDTO `json:"days"`
}

func toStatusDTO(result domain.StatusResult, at time.Time, key domain.DayKey, closedMinutes int) StatusDTO {
	return StatusDTO{
		Status:        string(result.Status),
		Reason:        result.Reason,
		NextChange:    result.NextChange,
		At:            at,
		DayKey:        string(key),
		ClosedMinutes: closedMinutes,
	}
}

func toWindowDTOs(windows []domain.OpenWindow) []WindowDTO {
	dtos := make([]WindowDTO, len(windows))
	for i, w := range windows {
		dtos[i] = WindowDTO{
			Start:   w.Start,
			End:     w.End,
			Label:   w.Label,
			Minutes: int(w.Duration().Minutes()),
		}
	}
	return dtos
}

func toScheduleDTO(schedule domain.Schedule) ScheduleDTO {
	days := make([]DayDTO, 0, len(domain.DayKeys()))
	for _, key := range domain.DayKeys() {
		rows := schedule.Day(key)
		blocks := make([]BlockDTO, len(rows))
		for i, r := range rows {
			blocks[i] = BlockDTO{Label: r.Label, IsClass: r.IsClass, Start: r.Start, End: r.End}
		}
		days = append(days, DayDTO{Key: key.String(), Name: key.DisplayName(), Blocks: blocks})
	}
	return ScheduleDTO{Days: days}
}
