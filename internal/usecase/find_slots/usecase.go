package find_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/availability"
	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/catalog"
)

// UseCase use case для поиска доступных слотов
// Результат всегда совещательный: предложение не резервирует интервал,
// финальная проверка выполняется аллокатором в момент создания бронирования
type UseCase struct {
	bookingRepo            BookingRepository
	catalogRepo            CatalogRepository
	granularityMinutes     int
	defaultDurationMinutes int
	timeProvider           TimeProvider
	logger                 Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	granularityMinutes int,
	defaultDurationMinutes int,
	logger Logger,
) *UseCase {
	if granularityMinutes <= 0 {
		granularityMinutes = domain.DefaultSlotGranularityMinutes
	}
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultServiceDurationMinutes
	}
	return &UseCase{
		bookingRepo:            bookingRepo,
		catalogRepo:            catalogRepo,
		granularityMinutes:     granularityMinutes,
		defaultDurationMinutes: defaultDurationMinutes,
		timeProvider:           &RealTimeProvider{},
		logger:                 logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет поиск слотов в окне [FromDate, ToDate]
// Пустой список предложений - корректный результат, не ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindSlots: business=%d, staff=%v, service=%v, from=%s, to=%s, max=%d",
		req.BusinessID, req.StaffID, req.ServiceID,
		req.FromDate.Format(domain.DateFormat), req.ToDate.Format(domain.DateFormat), req.MaxResults)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FindSlots: validation failed: %v", err)
		return nil, err
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxOffers
	}
	if maxResults > domain.MaxOffersPerPage {
		maxResults = domain.MaxOffersPerPage
	}

	now := uc.timeProvider.Now()

	business, err := uc.catalogRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("FindSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("FindSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// Определяем длительность: услуга с буфером или значение по умолчанию
	durationMinutes := uc.defaultDurationMinutes
	if req.ServiceID != nil {
		service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("FindSlots: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("FindSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.Active {
			uc.logger.Warn("FindSlots: service id=%d is inactive", *req.ServiceID)
			return nil, ErrServiceNotFound
		}
		durationMinutes = service.TotalMinutes()
	}

	// Определяем список мастеров для сканирования
	staffList, err := uc.resolveStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	offers := make([]domain.SlotOffer, 0, maxResults)

	// Сканируем по дням; проверка конфликтов ограничена бронированиями одного дня,
	// поэтому стоимость не зависит от размера всей истории
	for date := req.FromDate; !date.After(req.ToDate); date = date.AddDate(0, 0, 1) {
		if isDateInPast(date, now) {
			continue
		}

		dayDate := date
		filter := domain.StaffBookingsFilter{
			BusinessID:   req.BusinessID,
			StaffID:      req.StaffID,
			Date:         &dayDate,
			OnlyBlocking: true,
		}

		dayBookings, err := uc.bookingRepo.GetByStaffWithFilter(ctx, filter)
		if err != nil {
			uc.logger.Error("FindSlots: failed to get bookings for %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		dayOffers := make([]domain.SlotOffer, 0)
		for _, staff := range staffList {
			effective := availability.Intersect(business.Schedule, staff.Schedule)
			day := effective.ForWeekday(date.Weekday())

			dayOffers = append(dayOffers, generateStaffDaySlots(
				day,
				date,
				staff.ID,
				req.ServiceID,
				durationMinutes,
				uc.granularityMinutes,
				dayBookings,
				now,
			)...)
		}

		// Слияние слотов разных мастеров: строго по времени начала,
		// при равенстве - по id мастера
		sortOffers(dayOffers)

		for _, offer := range dayOffers {
			offers = append(offers, offer)
			if len(offers) >= maxResults {
				break
			}
		}
		if len(offers) >= maxResults {
			break
		}
	}

	uc.logger.Info("FindSlots: found %d offers for business=%d", len(offers), req.BusinessID)

	return &Response{
		BusinessID: req.BusinessID,
		Offers:     offers,
	}, nil
}

// resolveStaff возвращает мастеров для сканирования: одного указанного
// или всех активных мастеров бизнеса в порядке id
func (uc *UseCase) resolveStaff(ctx context.Context, req *Request) ([]*domain.Staff, error) {
	if req.StaffID != nil {
		staff, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("FindSlots: staff id=%d not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("FindSlots: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if !staff.Active {
			uc.logger.Warn("FindSlots: staff id=%d is inactive", *req.StaffID)
			return nil, ErrStaffNotFound
		}
		return []*domain.Staff{staff}, nil
	}

	staffList, err := uc.catalogRepo.ListActiveStaff(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("FindSlots: failed to list staff for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	return staffList, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.FromDate.IsZero() || req.ToDate.IsZero() {
		return fmt.Errorf("%w: date range is required", ErrInvalidInput)
	}

	if req.ToDate.Before(req.FromDate) {
		return fmt.Errorf("%w: toDate must not be before fromDate", ErrInvalidInput)
	}

	window := req.ToDate.Sub(req.FromDate) / (24 * time.Hour)
	if int(window) > domain.MaxScanWindowDays {
		return fmt.Errorf("%w: scan window exceeds %d days", ErrInvalidInput, domain.MaxScanWindowDays)
	}

	return nil
}
