package find_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByStaffWithFilter(ctx context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс каталога: бизнес, мастера, услуги
type CatalogRepository interface {
	GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error)
	ListActiveStaff(ctx context.Context, businessID int64) ([]*domain.Staff, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.ServiceSpec, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
