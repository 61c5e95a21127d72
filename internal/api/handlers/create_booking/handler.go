package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ChatBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChatBookingService/internal/api/middleware"
	allocateBooking "github.com/m04kA/SMC-ChatBookingService/internal/usecase/allocate_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingCustomerID   = "отсутствует ID клиента"
	msgSlotTaken           = "выбранное время уже занято"
	msgStartInPast         = "выбранное время уже прошло"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов"
	msgBusinessNotFound    = "бизнес не найден"
	msgStaffNotFound       = "мастер не найден"
	msgServiceNotFound     = "услуга не найдена"
)

type Handler struct {
	useCase AllocateBookingUseCase
	logger  Logger
}

func NewHandler(useCase AllocateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing customer ID")
		handlers.RespondUnauthorized(w, msgMissingCustomerID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, allocateBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: business_id=%d, staff_id=%d, customer_id=%d",
				req.BusinessID, req.StaffID, customerID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, allocateBooking.ErrStartInPast):
			h.logger.Warn("POST /bookings - Start in past: business_id=%d, customer_id=%d", req.BusinessID, customerID)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, allocateBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: business_id=%d, staff_id=%d", req.BusinessID, req.StaffID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, allocateBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: business_id=%d, error=%v", req.BusinessID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, allocateBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, allocateBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: business_id=%d, staff_id=%d", req.BusinessID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, allocateBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: business_id=%d, customer_id=%d, error=%v",
				req.BusinessID, customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, code=%s, customer_id=%d",
		result.ID, result.BookingCode, customerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
