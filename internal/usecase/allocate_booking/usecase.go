package allocate_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ChatBookingService/internal/availability"
	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// UseCase use case создания бронирования
// Аллокатор никогда не сдвигает и не укорачивает запрошенный интервал:
// любое нарушение ограничений - явный отказ с отдельной ошибкой.
// Проверка пересечений повторяется в момент коммита внутри сериализуемой
// транзакции, чтобы два конкурентных запроса на пересекающиеся интервалы
// не прошли одновременно
type UseCase struct {
	bookingRepo            BookingRepository
	catalogRepo            CatalogRepository
	txManager              TransactionManager
	events                 EventPublisher
	waitlist               WaitlistResolver
	defaultDurationMinutes int
	timeProvider           TimeProvider
	logger                 Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	events EventPublisher,
	waitlist WaitlistResolver,
	defaultDurationMinutes int,
	logger Logger,
) *UseCase {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultServiceDurationMinutes
	}
	return &UseCase{
		bookingRepo:            bookingRepo,
		catalogRepo:            catalogRepo,
		txManager:              txManager,
		events:                 events,
		waitlist:               waitlist,
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

// Execute выполняет создание бронирования
// Порядок проверок фиксирован, первая провалившаяся определяет ошибку:
// 1. время не в прошлом
// 2. мастер существует и активен
// 3. интервал помещается в эффективное расписание
// 4. нет пересечения с подтвержденным бронированием (повторно, при коммите)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AllocateBooking: business=%d, staff=%d, service=%v, customer=%d, date=%s, time=%s",
		req.BusinessID, req.StaffID, req.ServiceID, req.CustomerID,
		req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AllocateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 1. Время начала не в прошлом
	if isStartInPast(req.Date, req.StartTime, now) {
		uc.logger.Warn("AllocateBooking: start %s %s is in the past",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrStartInPast
	}

	business, err := uc.catalogRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("AllocateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("AllocateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 2. Мастер существует и активен
	staff, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("AllocateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("AllocateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("AllocateBooking: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	// Длительность и буфер фиксируются на бронировании в момент создания:
	// последующие изменения услуги не меняют существующие записи
	durationMinutes := uc.defaultDurationMinutes
	bufferMinutes := 0
	serviceName := strings.TrimSpace(req.ServiceName)

	if req.ServiceID != nil {
		service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("AllocateBooking: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("AllocateBooking: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.Active {
			uc.logger.Warn("AllocateBooking: service id=%d is inactive", *req.ServiceID)
			return nil, ErrServiceNotFound
		}
		durationMinutes = service.DurationMinutes
		bufferMinutes = service.BufferMinutes
		serviceName = service.Name
	}

	totalMinutes := durationMinutes + bufferMinutes

	// 3. Интервал помещается в эффективное расписание
	// Полуоткрытая семантика: услуга, заканчивающаяся ровно в закрытие, допустима
	effective := availability.Intersect(business.Schedule, staff.Schedule)
	day := effective.ForWeekday(req.Date.Weekday())
	if !availability.IntervalFits(day, req.StartTime, totalMinutes) {
		uc.logger.Warn("AllocateBooking: interval %s+%dmin does not fit working hours on %s",
			req.StartTime, totalMinutes, req.Date.Format(domain.DateFormat))
		return nil, ErrOutsideWorkingHours
	}

	endTime, err := req.StartTime.AddMinutes(totalMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 4. Повторная проверка пересечений и вставка в одной сериализуемой
	// транзакции с блокировкой дневного окна мастера (FOR UPDATE).
	// Из двух конкурентных попыток на пересекающиеся интервалы ровно одна
	// получает ErrSlotTaken
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		reqDate := req.Date
		filter := domain.StaffBookingsFilter{
			BusinessID:   req.BusinessID,
			StaffID:      &req.StaffID,
			Date:         &reqDate,
			OnlyBlocking: true,
			ForUpdate:    true,
		}

		dayBookings, err := uc.bookingRepo.GetByStaffWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("AllocateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		for _, b := range dayBookings {
			if b.Overlaps(req.StartTime, endTime) {
				uc.logger.Warn("AllocateBooking: slot %s-%s taken by booking id=%d",
					req.StartTime, endTime, b.ID)
				return ErrSlotTaken
			}
		}

		booking := &domain.Booking{
			BusinessID:      req.BusinessID,
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			CustomerID:      req.CustomerID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: durationMinutes,
			BufferMinutes:   bufferMinutes,
			Status:          domain.StatusConfirmed,
			BookingCode:     generateBookingCode(),
			ServiceName:     serviceName,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("AllocateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("AllocateBooking: created booking id=%d code=%s", result.ID, result.BookingCode)

	// Живая запись очереди ожидания на эту дату закрывается, иначе она
	// блокирует промоушен следующих и вернется в хвост за уже полученным слотом
	if err := uc.waitlist.MarkBooked(ctx, result.BusinessID, result.CustomerID, result.BookingDate); err != nil {
		uc.logger.Error("AllocateBooking: failed to close waitlist entry for customer=%d: %v",
			result.CustomerID, err)
	}

	// Событие для контура напоминаний: доставка best-effort,
	// сбой доставки не отменяет созданное бронирование
	event := domain.BookingCreatedEvent{
		BookingID:   result.ID,
		BusinessID:  result.BusinessID,
		CustomerID:  result.CustomerID,
		StaffID:     result.StaffID,
		ServiceID:   result.ServiceID,
		Date:        result.BookingDate,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		BookingCode: result.BookingCode,
	}
	if err := uc.events.PublishBookingCreated(ctx, event); err != nil {
		uc.logger.Error("AllocateBooking: failed to publish booking created event for id=%d: %v", result.ID, err)
	}

	return toResponse(result), nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}
	if req.ServiceID == nil && strings.TrimSpace(req.ServiceName) == "" {
		return fmt.Errorf("%w: serviceID or serviceName is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return nil
}

// isStartInPast проверяет, что запрошенное время начала уже прошло
func isStartInPast(date time.Time, start types.TimeString, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return true
	}
	if dateOnly.After(nowOnly) {
		return false
	}
	return start.IsBefore(types.NewTimeString(now))
}

// generateBookingCode генерирует человекочитаемый код бронирования
// Уникальность в рамках бизнеса обеспечивает уникальный индекс в БД
func generateBookingCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BK-" + raw[:6]
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		BusinessID:      b.BusinessID,
		StaffID:         b.StaffID,
		ServiceID:       b.ServiceID,
		CustomerID:      b.CustomerID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		BufferMinutes:   b.BufferMinutes,
		Status:          string(b.Status),
		BookingCode:     b.BookingCode,
		ServiceName:     b.ServiceName,
		CreatedAt:       b.CreatedAt,
	}
}
