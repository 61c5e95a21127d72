package find_slots

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ChatBookingService/internal/availability"
	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// generateStaffDaySlots генерирует предложения для одного мастера на один день
// Кандидаты идут от открытия эффективного расписания с фиксированным шагом
// granularity. Кандидат отбрасывается, если интервал услуги не помещается в
// рабочие часы (включая перерывы) или пересекается с блокирующим бронированием.
// Для сегодняшней даты отбрасываются кандидаты, начинающиеся раньше "сейчас":
// такое предложение гарантированно провалило бы аллокацию
func generateStaffDaySlots(
	effective domain.DaySchedule,
	date time.Time,
	staffID int64,
	serviceID *int64,
	durationMinutes int,
	granularityMinutes int,
	bookings []*domain.Booking,
	now time.Time,
) []domain.SlotOffer {
	if !effective.IsOpen {
		return nil
	}

	var offers []domain.SlotOffer

	candidate := effective.Start
	for candidate.IsBefore(effective.End) {
		if availability.IntervalFits(effective, candidate, durationMinutes) &&
			!isPastCandidate(date, candidate, now) &&
			!overlapsBlocking(candidate, durationMinutes, staffID, bookings) {
			offers = append(offers, domain.SlotOffer{
				ID:              newOfferID(),
				StaffID:         staffID,
				ServiceID:       serviceID,
				Date:            date,
				StartTime:       candidate,
				DurationMinutes: durationMinutes,
			})
		}

		next, err := candidate.AddMinutes(granularityMinutes)
		if err != nil {
			break
		}
		candidate = next
	}

	return offers
}

// overlapsBlocking проверяет пересечение кандидата с блокирующим бронированием мастера
// Полуоткрытые интервалы: newStart < existingEnd && existingStart < newEnd
func overlapsBlocking(start types.TimeString, durationMinutes int, staffID int64, bookings []*domain.Booking) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return true
	}

	for _, b := range bookings {
		if b.StaffID != staffID || !b.Blocks() {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}

	return false
}

// isPastCandidate возвращает true для сегодняшних кандидатов, начинающихся раньше "сейчас"
func isPastCandidate(date time.Time, start types.TimeString, now time.Time) bool {
	if !isSameDay(date, now) {
		return false
	}
	return start.IsBefore(types.NewTimeString(now))
}

// sortOffers упорядочивает предложения: по дате, затем по времени начала,
// затем по id мастера для детерминизма при слиянии "любой мастер"
func sortOffers(offers []domain.SlotOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if !offers[i].Date.Equal(offers[j].Date) {
			return offers[i].Date.Before(offers[j].Date)
		}
		if offers[i].StartTime != offers[j].StartTime {
			return offers[i].StartTime.IsBefore(offers[j].StartTime)
		}
		return offers[i].StaffID < offers[j].StaffID
	})
}

// newOfferID генерирует короткий стабильный id предложения для кнопки
func newOfferID() string {
	return uuid.NewString()[:8]
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
