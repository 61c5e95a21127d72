package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	waitlistRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
)

// Service сервис очереди ожидания на полностью занятые даты
// Очередь обслуживается периодическим sweep-проходом: истёкшие уведомления
// возвращаются в хвост, первая подходящая активная запись уведомляется.
// Sweep идемпотентен, повторный запуск без изменений данных ничего не меняет
type Service struct {
	waitlistRepo     WaitlistRepository
	slotFinder       SlotFinder
	notifier         Notifier
	txManager        TransactionManager
	notifyTTLMinutes int
	timeProvider     TimeProvider
	logger           Logger
	metrics          Metrics
}

// NewService создает новый экземпляр сервиса очереди ожидания
func NewService(
	waitlistRepo WaitlistRepository,
	slotFinder SlotFinder,
	notifier Notifier,
	txManager TransactionManager,
	notifyTTLMinutes int,
	logger Logger,
	metrics Metrics,
) *Service {
	if notifyTTLMinutes <= 0 {
		notifyTTLMinutes = domain.DefaultNotifyTTLMinutes
	}
	return &Service{
		waitlistRepo:     waitlistRepo,
		slotFinder:       slotFinder,
		notifier:         notifier,
		txManager:        txManager,
		notifyTTLMinutes: notifyTTLMinutes,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		metrics:          metrics,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Enqueue ставит клиента в очередь ожидания на дату
// Идемпотентен: повторный вызов для живой записи возвращает существующую
// запись без создания дубликата. Позиция назначается монотонно в рамках
// (бизнес, дата) и не переиспользуется после удаления записей
func (s *Service) Enqueue(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	s.logger.Info("Enqueue: business=%d, customer=%d, date=%s",
		entry.BusinessID, entry.CustomerID, entry.DesiredDate.Format(domain.DateFormat))

	if entry.BusinessID <= 0 || entry.CustomerID <= 0 || entry.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: businessID, customerID and serviceID must be positive", ErrInvalidInput)
	}
	if entry.DesiredDate.IsZero() {
		return nil, fmt.Errorf("%w: desiredDate is required", ErrInvalidInput)
	}

	existing, err := s.waitlistRepo.GetActiveByPair(ctx, entry.BusinessID, entry.CustomerID, entry.DesiredDate)
	if err == nil {
		s.logger.Info("Enqueue: customer=%d already enqueued for %s at position=%d",
			entry.CustomerID, entry.DesiredDate.Format(domain.DateFormat), existing.Position)
		return existing, nil
	}
	if !errors.Is(err, waitlistRepo.ErrEntryNotFound) {
		s.logger.Error("Enqueue: failed to check existing entry: %v", err)
		return nil, fmt.Errorf("%w: Enqueue - repository error: %v", ErrInternal, err)
	}

	entry.Status = domain.WaitlistActive

	var created *domain.WaitlistEntry
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		c, err := s.waitlistRepo.Create(txCtx, entry)
		if err != nil {
			return fmt.Errorf("%w: Enqueue - create entry: %v", ErrInternal, err)
		}
		created = c
		return nil
	})
	if err != nil {
		s.logger.Error("Enqueue: failed to create entry: %v", err)
		return nil, err
	}

	s.logger.Info("Enqueue: created entry id=%d position=%d", created.ID, created.Position)
	return created, nil
}

// MarkBooked закрывает живую запись клиента на дату после успешного
// бронирования. Закрытая запись перестает блокировать промоушен следующих
// в очереди и не возвращается в хвост по истечении окна уведомления.
// Отсутствие живой записи не ошибка: бронирование могло прийти мимо очереди
func (s *Service) MarkBooked(ctx context.Context, businessID, customerID int64, date time.Time) error {
	if businessID <= 0 || customerID <= 0 || date.IsZero() {
		return fmt.Errorf("%w: businessID, customerID and date are required", ErrInvalidInput)
	}

	entry, err := s.waitlistRepo.GetActiveByPair(ctx, businessID, customerID, date)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return nil
		}
		s.logger.Error("MarkBooked: failed to find entry for customer=%d: %v", customerID, err)
		return fmt.Errorf("%w: MarkBooked - repository error: %v", ErrInternal, err)
	}

	if err := s.waitlistRepo.UpdateStatus(ctx, entry.ID, domain.WaitlistBooked, nil); err != nil {
		s.logger.Error("MarkBooked: failed to close entry id=%d: %v", entry.ID, err)
		return fmt.Errorf("%w: MarkBooked - update entry id=%d: %v", ErrInternal, entry.ID, err)
	}

	s.logger.Info("MarkBooked: entry id=%d closed for customer=%d on %s",
		entry.ID, customerID, date.Format(domain.DateFormat))
	return nil
}

// RunSweep выполняет один проход по очереди бизнеса на дату:
// 1. записи notified с истёкшим окном подтверждения возвращаются в хвост
// 2. первая активная запись, для которой нашелся слот, переводится
//    в notified и уведомляется; за проход уведомляется не больше одной
func (s *Service) RunSweep(ctx context.Context, businessID int64, date time.Time) error {
	s.logger.Info("RunSweep: business=%d, date=%s", businessID, date.Format(domain.DateFormat))

	if businessID <= 0 || date.IsZero() {
		return fmt.Errorf("%w: businessID and date are required", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	requeued := 0
	var promoted *domain.WaitlistEntry
	var promotedOffer domain.SlotOffer

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		entries, err := s.waitlistRepo.ListByBusinessAndDate(txCtx, businessID, date, nil, true)
		if err != nil {
			return fmt.Errorf("%w: RunSweep - list entries: %v", ErrInternal, err)
		}

		// Фаза 1: возврат просроченных уведомлений в хвост очереди
		for _, entry := range entries {
			if !entry.IsNotificationExpired(now) {
				continue
			}
			if err := s.waitlistRepo.RequeueAtTail(txCtx, entry.ID); err != nil {
				return fmt.Errorf("%w: RunSweep - requeue entry id=%d: %v", ErrInternal, entry.ID, err)
			}
			s.logger.Info("RunSweep: entry id=%d notification expired, requeued at tail", entry.ID)
			requeued++
		}

		// Фаза 2: промоушен первой активной записи, для которой нашелся слот
		// Живое уведомление блокирует следующие промоушены до своего исхода
		for _, entry := range entries {
			if entry.Status == domain.WaitlistNotified && !entry.IsNotificationExpired(now) {
				s.logger.Info("RunSweep: entry id=%d still notified, skipping promotion", entry.ID)
				return nil
			}
		}

		// Возвращённые в хвост записи не участвуют в этом проходе:
		// их новая позиция вступает в силу со следующего sweep'а
		for _, entry := range entries {
			if entry.Status != domain.WaitlistActive {
				continue
			}

			offer, found, err := s.findOfferFor(txCtx, entry, date)
			if err != nil {
				return err
			}
			if !found {
				continue
			}

			expiresAt := now.Add(time.Duration(s.notifyTTLMinutes) * time.Minute)
			if err := s.waitlistRepo.UpdateStatus(txCtx, entry.ID, domain.WaitlistNotified, &expiresAt); err != nil {
				return fmt.Errorf("%w: RunSweep - promote entry id=%d: %v", ErrInternal, entry.ID, err)
			}

			promotedEntry := *entry
			promotedEntry.Status = domain.WaitlistNotified
			promotedEntry.NotifyExpiresAt = &expiresAt
			promoted = &promotedEntry
			promotedOffer = offer

			s.logger.Info("RunSweep: promoted entry id=%d position=%d, notify until %s",
				entry.ID, entry.Position, expiresAt.Format(time.RFC3339))
			return nil
		}

		return nil
	})

	if err != nil {
		s.logger.Error("RunSweep: sweep failed for business=%d: %v", businessID, err)
		s.metrics.ObserveSweep("error")
		return err
	}

	// Уведомление отправляется после коммита: сбой доставки не откатывает
	// статус, просроченное уведомление вернется в хвост следующим проходом
	if promoted != nil {
		if err := s.notifier.NotifySlotAvailable(ctx, promoted, promotedOffer); err != nil {
			s.logger.Error("RunSweep: failed to notify entry id=%d: %v", promoted.ID, err)
		}
		s.metrics.ObserveSweep("promoted")
		return nil
	}

	if requeued > 0 {
		s.metrics.ObserveSweep("requeued")
	} else {
		s.metrics.ObserveSweep("noop")
	}
	return nil
}

// RunPendingSweeps выполняет sweep по всем парам (бизнес, дата) с живыми
// записями очереди. Вызывается по cron-расписанию; ошибка одной пары
// не прерывает обход остальных
func (s *Service) RunPendingSweeps(ctx context.Context) error {
	today := truncateToDay(s.timeProvider.Now())

	// Записи на прошедшие даты закрываются до обхода: ждать на них
	// больше нечего, слот в прошлом не появится
	expired, err := s.waitlistRepo.ExpireOverdue(ctx, today)
	if err != nil {
		s.logger.Error("RunPendingSweeps: failed to expire overdue entries: %v", err)
	} else if expired > 0 {
		s.logger.Info("RunPendingSweeps: expired %d overdue entries", expired)
	}

	buckets, err := s.waitlistRepo.ListPendingBuckets(ctx, today)
	if err != nil {
		s.logger.Error("RunPendingSweeps: failed to list buckets: %v", err)
		return fmt.Errorf("%w: RunPendingSweeps - list buckets: %v", ErrInternal, err)
	}

	var lastErr error
	for _, bucket := range buckets {
		if err := s.RunSweep(ctx, bucket.BusinessID, bucket.Date); err != nil {
			s.logger.Error("RunPendingSweeps: sweep failed for business=%d, date=%s: %v",
				bucket.BusinessID, bucket.Date.Format(domain.DateFormat), err)
			lastErr = err
		}
	}

	return lastErr
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// findOfferFor ищет слот под параметры записи очереди на её дату
func (s *Service) findOfferFor(ctx context.Context, entry *domain.WaitlistEntry, date time.Time) (domain.SlotOffer, bool, error) {
	serviceID := entry.ServiceID
	resp, err := s.slotFinder.Execute(ctx, &find_slots.Request{
		BusinessID: entry.BusinessID,
		StaffID:    entry.StaffID,
		ServiceID:  &serviceID,
		FromDate:   date,
		ToDate:     date,
		MaxResults: 1,
	})
	if err != nil {
		if errors.Is(err, find_slots.ErrServiceNotFound) || errors.Is(err, find_slots.ErrStaffNotFound) {
			// Услуга или мастер деактивированы после постановки в очередь:
			// запись пропускается, не валит весь проход
			s.logger.Warn("RunSweep: entry id=%d references missing catalog data: %v", entry.ID, err)
			return domain.SlotOffer{}, false, nil
		}
		return domain.SlotOffer{}, false, fmt.Errorf("%w: RunSweep - find slots for entry id=%d: %v", ErrInternal, entry.ID, err)
	}

	if len(resp.Offers) == 0 {
		return domain.SlotOffer{}, false, nil
	}
	return resp.Offers[0], true, nil
}
