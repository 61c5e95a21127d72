package allocate_booking

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	BusinessID int64            // ID бизнеса
	StaffID    int64            // ID мастера
	ServiceID  *int64           // ID услуги (nil - услуга в свободной форме)
	ServiceName string          // Название услуги для legacy-запросов без ServiceID
	CustomerID int64            // ID клиента
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "14:30")
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	BusinessID      int64
	StaffID         int64
	ServiceID       *int64
	CustomerID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	BufferMinutes   int
	Status          string
	BookingCode     string
	ServiceName     string
	CreatedAt       time.Time
}
