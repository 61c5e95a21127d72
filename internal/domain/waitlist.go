package domain

import "time"

// WaitlistStatus represents the status of a waitlist entry
type WaitlistStatus string

const (
	WaitlistActive   WaitlistStatus = "active"
	WaitlistNotified WaitlistStatus = "notified"
	WaitlistBooked   WaitlistStatus = "booked"
	WaitlistExpired  WaitlistStatus = "expired"
)

// WaitlistEntry запись в очереди ожидания на полностью занятую дату
type WaitlistEntry struct {
	ID          int64
	BusinessID  int64
	CustomerID  int64
	ServiceID   int64
	StaffID     *int64 // nil = любой мастер
	DesiredDate time.Time

	Status   WaitlistStatus
	Position int // монотонно растет в рамках (бизнес, дата)

	// NotifyExpiresAt задан только в статусе notified: если клиент не
	// подтвердил до этого момента, запись возвращается в конец очереди
	NotifyExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WaitlistBucket пара (бизнес, дата) с живыми записями очереди
type WaitlistBucket struct {
	BusinessID int64
	Date       time.Time
}

// IsNotificationExpired возвращает true, если окно подтверждения истекло
func (e *WaitlistEntry) IsNotificationExpired(now time.Time) bool {
	return e.Status == WaitlistNotified && e.NotifyExpiresAt != nil && now.After(*e.NotifyExpiresAt)
}
