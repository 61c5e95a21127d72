package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
)

// WaitlistRepository интерфейс репозитория очереди ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	ListByBusinessAndDate(ctx context.Context, businessID int64, date time.Time, status *domain.WaitlistStatus, forUpdate bool) ([]*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id int64, status domain.WaitlistStatus, notifyExpiresAt *time.Time) error
	RequeueAtTail(ctx context.Context, id int64) error
	GetActiveByPair(ctx context.Context, businessID, customerID int64, date time.Time) (*domain.WaitlistEntry, error)
	ListPendingBuckets(ctx context.Context, fromDate time.Time) ([]domain.WaitlistBucket, error)
	ExpireOverdue(ctx context.Context, before time.Time) (int64, error)
}

// SlotFinder интерфейс поиска доступных слотов
// Очередь использует его при промоушене: запись уведомляется только когда
// на желаемую дату реально появился слот
type SlotFinder interface {
	Execute(ctx context.Context, req *find_slots.Request) (*find_slots.Response, error)
}

// Notifier интерфейс доставки уведомления об освободившемся слоте
type Notifier interface {
	NotifySlotAvailable(ctx context.Context, entry *domain.WaitlistEntry, offer domain.SlotOffer) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс учета результатов sweep-проходов
type Metrics interface {
	ObserveSweep(outcome string)
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
