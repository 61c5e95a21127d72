package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChatBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidQuery      = "некорректные параметры запроса"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound  = "бизнес не найден"
	msgStaffNotFound     = "мастер не найден"
	msgServiceNotFound   = "услуга не найдена"
)

type Handler struct {
	useCase FindSlotsUseCase
	logger  Logger
}

func NewHandler(useCase FindSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query: from, to (YYYY-MM-DD), staffId, serviceId, maxResults - опциональны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	req, err := parseQuery(businessID, r)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid query: business_id=%d, error=%v", businessID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, find_slots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, find_slots.ErrBusinessNotFound):
			h.logger.Warn("GET /available-slots - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, find_slots.ErrStaffNotFound):
			h.logger.Warn("GET /available-slots - Staff not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, find_slots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /available-slots - Failed to find slots: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Found %d offers: business_id=%d", len(result.Offers), businessID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func parseQuery(businessID int64, r *http.Request) (*find_slots.Request, error) {
	query := r.URL.Query()

	req := &find_slots.Request{BusinessID: businessID}

	from := query.Get("from")
	if from == "" {
		return nil, errors.New("from is required")
	}
	fromDate, err := time.Parse(domain.DateFormat, from)
	if err != nil {
		return nil, err
	}
	req.FromDate = fromDate

	to := query.Get("to")
	if to == "" {
		req.ToDate = fromDate
	} else {
		toDate, err := time.Parse(domain.DateFormat, to)
		if err != nil {
			return nil, err
		}
		req.ToDate = toDate
	}

	if raw := query.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if raw := query.Get("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	if raw := query.Get("maxResults"); raw != "" {
		maxResults, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.MaxResults = maxResults
	}

	return req, nil
}
