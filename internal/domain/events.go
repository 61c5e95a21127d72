package domain

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// BookingCreatedEvent событие для внешнего контура напоминаний
type BookingCreatedEvent struct {
	BookingID   int64            `json:"bookingId"`
	BusinessID  int64            `json:"businessId"`
	CustomerID  int64            `json:"customerId"`
	StaffID     int64            `json:"staffId"`
	ServiceID   *int64           `json:"serviceId,omitempty"`
	Date        time.Time        `json:"date"`
	StartTime   types.TimeString `json:"start"`
	EndTime     types.TimeString `json:"end"`
	BookingCode string           `json:"bookingCode"`
}
