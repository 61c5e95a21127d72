package domain

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// TimeRange интервал [Start, End) внутри суток
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// DaySchedule расписание на один день недели
// IsOpen = false означает выходной; Breaks лежат строго внутри [Start, End)
// и не пересекаются между собой
type DaySchedule struct {
	IsOpen bool             `json:"isOpen"`
	Start  types.TimeString `json:"start,omitempty"`
	End    types.TimeString `json:"end,omitempty"`
	Breaks []TimeRange      `json:"breaks,omitempty"`
}

// WorkingSchedule недельное расписание бизнеса или мастера
type WorkingSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// ForWeekday возвращает расписание на указанный день недели
func (s WorkingSchedule) ForWeekday(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// SetWeekday записывает расписание на указанный день недели
func (s *WorkingSchedule) SetWeekday(weekday time.Weekday, day DaySchedule) {
	switch weekday {
	case time.Monday:
		s.Monday = day
	case time.Tuesday:
		s.Tuesday = day
	case time.Wednesday:
		s.Wednesday = day
	case time.Thursday:
		s.Thursday = day
	case time.Friday:
		s.Friday = day
	case time.Saturday:
		s.Saturday = day
	case time.Sunday:
		s.Sunday = day
	}
}
