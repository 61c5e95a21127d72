package run_waitlist_sweep

import (
	"context"
	"time"
)

type WaitlistService interface {
	RunSweep(ctx context.Context, businessID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
