package webhook

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ChatBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChatBookingService/internal/service/dialogue"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEvent       = "некорректное событие чата"
)

type Handler struct {
	engine DialogueEngine
	logger Logger
}

func NewHandler(engine DialogueEngine, logger Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// Handle POST /api/v1/webhook/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /webhook/events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	event, err := req.ToInboundEvent()
	if err != nil {
		h.logger.Warn("POST /webhook/events - Failed to parse event: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEvent)
		return
	}

	reply, err := h.engine.HandleEvent(r.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, dialogue.ErrInvalidEvent):
			h.logger.Warn("POST /webhook/events - Invalid event: business_id=%d, customer_id=%d, error=%v",
				req.BusinessID, req.CustomerID, err)
			handlers.RespondBadRequest(w, msgInvalidEvent)

		default:
			h.logger.Error("POST /webhook/events - Failed to handle event: business_id=%d, customer_id=%d, error=%v",
				req.BusinessID, req.CustomerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhook/events - Event handled: business_id=%d, customer_id=%d, template=%s",
		req.BusinessID, req.CustomerID, reply.TemplateKey)
	handlers.RespondJSON(w, http.StatusOK, reply)
}
