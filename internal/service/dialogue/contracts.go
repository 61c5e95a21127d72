package dialogue

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/internal/integrations/nlu"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/allocate_booking"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
)

// SessionRepository интерфейс репозитория диалоговых сессий
type SessionRepository interface {
	GetByPair(ctx context.Context, businessID, customerID int64) (*domain.DialogueSession, error)
	Replace(ctx context.Context, s *domain.DialogueSession) (*domain.DialogueSession, error)
	Update(ctx context.Context, s *domain.DialogueSession) error
	MarkAbandoned(ctx context.Context, inactiveSince time.Time) (int64, error)
}

// CatalogRepository интерфейс каталога для валидации подсказок
// и автозаполнения единственной услуги/мастера
type CatalogRepository interface {
	GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.ServiceSpec, error)
	ListActiveStaff(ctx context.Context, businessID int64) ([]*domain.Staff, error)
	ListActiveServices(ctx context.Context, businessID int64) ([]*domain.ServiceSpec, error)
	FindServiceByName(ctx context.Context, businessID int64, name string) (*domain.ServiceSpec, error)
	FindStaffByName(ctx context.Context, businessID int64, name string) (*domain.Staff, error)
}

// SlotFinder интерфейс поиска доступных слотов
type SlotFinder interface {
	Execute(ctx context.Context, req *find_slots.Request) (*find_slots.Response, error)
}

// Allocator интерфейс создания бронирования
type Allocator interface {
	Execute(ctx context.Context, req *allocate_booking.Request) (*allocate_booking.Response, error)
}

// WaitlistService интерфейс постановки в очередь ожидания
type WaitlistService interface {
	Enqueue(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
}

// IntentClassifier интерфейс внешнего классификатора намерений
type IntentClassifier interface {
	ClassifyWithGracefulDegradation(ctx context.Context, text, language string) (*nlu.Intent, error)
}

// SessionLocker интерфейс сериализации событий одной пары (бизнес, клиент)
type SessionLocker interface {
	Lock(key string)
	Unlock(key string)
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

// Metrics интерфейс учета переходов и исходов аллокаций
type Metrics interface {
	ObserveTransition(from, to string)
	ObserveAllocation(outcome string)
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
