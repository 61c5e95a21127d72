package domain

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

// SessionState represents the state of a dialogue session
type SessionState string

const (
	StateIdle            SessionState = "idle"
	StateCollecting      SessionState = "collecting"
	StateOffering        SessionState = "offering"
	StateWaitlistOffered SessionState = "waitlist_offered"
	StateConfirming      SessionState = "confirming"
	StateDone            SessionState = "done"
	StateWaitlisted      SessionState = "waitlisted"
	StateAbandoned       SessionState = "abandoned"
)

// IsTerminal возвращает true для финальных состояний сессии
func (s SessionState) IsTerminal() bool {
	return s == StateDone || s == StateWaitlisted || s == StateAbandoned
}

// SlotOffer кандидат на бронирование, показанный клиенту
// Это не резервация: слот может быть занят другим клиентом до подтверждения
type SlotOffer struct {
	ID              string           `json:"id"` // стабильный короткий id для кнопки
	StaffID         int64            `json:"staffId"`
	ServiceID       *int64           `json:"serviceId,omitempty"`
	Date            time.Time        `json:"date"`
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes int              `json:"durationMinutes"`
}

// DialogueSession состояние многошагового диалога с клиентом
// Ровно одна живая сессия на пару (бизнес, клиент); владеет ею только
// диалоговый движок
type DialogueSession struct {
	ID         int64
	BusinessID int64
	CustomerID int64

	State         SessionState
	PendingOffers []SlotOffer
	SelectedOffer *SlotOffer

	// Поля, собираемые в состоянии collecting
	KnownServiceID *int64
	KnownStaffID   *int64
	RequestedDate  *time.Time

	Language string

	CreatedAt      time.Time
	LastActivityAt time.Time
}

// IsExpired возвращает true, если сессия неактивна дольше ttl
func (s *DialogueSession) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivityAt) > ttl
}

// FindOffer ищет предложение по id среди текущих PendingOffers
// Возвращает nil для устаревших и неизвестных id
func (s *DialogueSession) FindOffer(offerID string) *SlotOffer {
	for i := range s.PendingOffers {
		if s.PendingOffers[i].ID == offerID {
			return &s.PendingOffers[i]
		}
	}
	return nil
}

// FieldsCollected возвращает true, когда известны услуга и дата
// Мастер может остаться не выбранным ("любой мастер")
func (s *DialogueSession) FieldsCollected() bool {
	return s.KnownServiceID != nil && s.RequestedDate != nil
}
