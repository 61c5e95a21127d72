// Package availability содержит чистые функции модели доступности:
// рабочие часы, перерывы и пересечение расписаний.
// Никаких побочных эффектов и обращений к часам - "сейчас" всегда передается снаружи.
package availability

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// IsWithinWorkingHours проверяет, что момент t попадает в рабочие часы дня:
// внутри [Start, End) и вне каждого перерыва
func IsWithinWorkingHours(day domain.DaySchedule, t types.TimeString) bool {
	if !day.IsOpen {
		return false
	}

	if t.IsBefore(day.Start) || !t.IsBefore(day.End) {
		return false
	}

	for _, br := range day.Breaks {
		if !t.IsBefore(br.Start) && t.IsBefore(br.End) {
			return false
		}
	}

	return true
}

// IntervalFits проверяет, что весь интервал [start, start+duration) лежит
// в рабочих часах: услуга не может пересекать перерыв или закрытие даже частично.
// Полуоткрытые интервалы: услуга, заканчивающаяся ровно в закрытие
// или ровно в начало перерыва, допустима
func IntervalFits(day domain.DaySchedule, start types.TimeString, durationMinutes int) bool {
	if !day.IsOpen || durationMinutes <= 0 {
		return false
	}

	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	if start.IsBefore(day.Start) {
		return false
	}
	if end.IsAfter(day.End) {
		return false
	}

	for _, br := range day.Breaks {
		// Пересечение полуоткрытых интервалов: start < br.End && br.Start < end
		if start.IsBefore(br.End) && br.Start.IsBefore(end) {
			return false
		}
	}

	return true
}

// Intersect строит эффективное расписание: пересечение часов бизнеса и мастера
// Мастер не может работать, когда бизнес закрыт; если хотя бы одно из расписаний
// на день отсутствует, день закрыт. Перерывы обеих сторон сохраняются
func Intersect(business, staff domain.WorkingSchedule) domain.WorkingSchedule {
	var result domain.WorkingSchedule

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		result.SetWeekday(wd, intersectDay(business.ForWeekday(wd), staff.ForWeekday(wd)))
	}

	return result
}

func intersectDay(a, b domain.DaySchedule) domain.DaySchedule {
	if !a.IsOpen || !b.IsOpen {
		return domain.DaySchedule{IsOpen: false}
	}

	start := maxTime(a.Start, b.Start)
	end := minTime(a.End, b.End)

	if !start.IsBefore(end) {
		return domain.DaySchedule{IsOpen: false}
	}

	breaks := make([]domain.TimeRange, 0, len(a.Breaks)+len(b.Breaks))
	for _, br := range append(append([]domain.TimeRange{}, a.Breaks...), b.Breaks...) {
		clipped, ok := clip(br, start, end)
		if ok {
			breaks = append(breaks, clipped)
		}
	}

	return domain.DaySchedule{
		IsOpen: true,
		Start:  start,
		End:    end,
		Breaks: breaks,
	}
}

// clip обрезает перерыв по границам рабочего интервала
func clip(br domain.TimeRange, start, end types.TimeString) (domain.TimeRange, bool) {
	s := maxTime(br.Start, start)
	e := minTime(br.End, end)
	if !s.IsBefore(e) {
		return domain.TimeRange{}, false
	}
	return domain.TimeRange{Start: s, End: e}, true
}

func maxTime(a, b types.TimeString) types.TimeString {
	if a.IsBefore(b) {
		return b
	}
	return a
}

func minTime(a, b types.TimeString) types.TimeString {
	if a.IsBefore(b) {
		return a
	}
	return b
}
