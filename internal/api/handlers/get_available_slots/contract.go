package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
)

type FindSlotsUseCase interface {
	Execute(ctx context.Context, req *find_slots.Request) (*find_slots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
