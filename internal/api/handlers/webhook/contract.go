package webhook

import (
	"context"

	"github.com/m04kA/SMC-ChatBookingService/internal/service/dialogue"
)

type DialogueEngine interface {
	HandleEvent(ctx context.Context, event *dialogue.InboundEvent) (*dialogue.OutboundReply, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
