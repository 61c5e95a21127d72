package domain

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a confirmed service appointment with a staff member
type Booking struct {
	ID         int64
	BusinessID int64
	StaffID    int64
	ServiceID  *int64 // nil для legacy-записей с услугой в свободной форме
	CustomerID int64

	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString // start + duration + buffer
	DurationMinutes int
	BufferMinutes   int

	Status      BookingStatus
	BookingCode string

	// Denormalized data for history
	ServiceName string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blocks returns true if the booking blocks its time interval from allocation
// Только confirmed блокирует интервал; остальные статусы интервал освобождают
func (b *Booking) Blocks() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// Overlaps проверяет пересечение с интервалом [start, end) в тот же день
// Полуоткрытые интервалы: граничащие записи не пересекаются
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start)
}

// StaffBookingsFilter фильтр для выборки бронирований мастера
type StaffBookingsFilter struct {
	BusinessID   int64      // Обязательный параметр
	StaffID      *int64     // Фильтр по мастеру (nil - все мастера бизнеса)
	Date         *time.Time // Конкретная дата (nil - без ограничения)
	OnlyBlocking bool       // Только бронирования, блокирующие интервал (confirmed)
	ForUpdate    bool       // Блокировать выбранные строки (только внутри транзакции)
}
