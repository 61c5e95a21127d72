package create_booking

import (
	"context"

	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/allocate_booking"
)

type AllocateBookingUseCase interface {
	Execute(ctx context.Context, req *allocate_booking.Request) (*allocate_booking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
