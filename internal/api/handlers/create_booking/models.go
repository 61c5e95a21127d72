package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/allocate_booking"
	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID  int64  `json:"businessId"`
	StaffID     int64  `json:"staffId"`
	ServiceID   *int64 `json:"serviceId,omitempty"`
	ServiceName string `json:"serviceName,omitempty"` // для запросов без serviceId
	BookingDate string `json:"bookingDate"`           // "2025-10-15"
	StartTime   string `json:"startTime"`             // "10:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	StaffID         int64  `json:"staffId"`
	ServiceID       *int64 `json:"serviceId,omitempty"`
	CustomerID      int64  `json:"customerId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	BufferMinutes   int    `json:"bufferMinutes"`
	Status          string `json:"status"`
	BookingCode     string `json:"bookingCode"`
	ServiceName     string `json:"serviceName"`
	CreatedAt       string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*allocate_booking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &allocate_booking.Request{
		BusinessID:  r.BusinessID,
		StaffID:     r.StaffID,
		ServiceID:   r.ServiceID,
		ServiceName: r.ServiceName,
		CustomerID:  customerID,
		Date:        bookingDate,
		StartTime:   startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *allocate_booking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		CustomerID:      resp.CustomerID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		BufferMinutes:   resp.BufferMinutes,
		Status:          resp.Status,
		BookingCode:     resp.BookingCode,
		ServiceName:     resp.ServiceName,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
