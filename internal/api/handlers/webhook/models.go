package webhook

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/internal/service/dialogue"
)

// IntentPayload подсказки классификатора, извлечённые до вызова сервиса
type IntentPayload struct {
	BookingIntent bool    `json:"bookingIntent"`
	Confirm       bool    `json:"confirm"`
	Decline       bool    `json:"decline"`
	ServiceID     *int64  `json:"serviceId,omitempty"`
	ServiceName   *string `json:"serviceName,omitempty"`
	StaffID       *int64  `json:"staffId,omitempty"`
	StaffName     *string `json:"staffName,omitempty"`
	Date          *string `json:"date,omitempty"` // "2025-10-15"
}

// EventRequest HTTP модель входящего события чата
type EventRequest struct {
	BusinessID int64  `json:"businessId"`
	CustomerID int64  `json:"customerId"`
	Kind       string `json:"kind"` // "TEXT" | "BUTTON"
	Payload    string `json:"payload"`

	DetectedLanguage   string  `json:"detectedLanguage,omitempty"`
	LanguageConfidence float64 `json:"languageConfidence,omitempty"`

	Intent *IntentPayload `json:"intent,omitempty"`
}

// ToInboundEvent конвертирует HTTP запрос в событие движка
func (r *EventRequest) ToInboundEvent() (*dialogue.InboundEvent, error) {
	event := &dialogue.InboundEvent{
		BusinessID:         r.BusinessID,
		CustomerID:         r.CustomerID,
		Kind:               dialogue.EventKind(r.Kind),
		Payload:            r.Payload,
		DetectedLanguage:   r.DetectedLanguage,
		LanguageConfidence: r.LanguageConfidence,
	}

	if r.Intent != nil {
		intent := &dialogue.DetectedIntent{
			BookingIntent: r.Intent.BookingIntent,
			Confirm:       r.Intent.Confirm,
			Decline:       r.Intent.Decline,
			ServiceID:     r.Intent.ServiceID,
			ServiceName:   r.Intent.ServiceName,
			StaffID:       r.Intent.StaffID,
			StaffName:     r.Intent.StaffName,
		}

		if r.Intent.Date != nil {
			date, err := time.Parse(domain.DateFormat, *r.Intent.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid intent date: %w", err)
			}
			intent.Date = &date
		}

		event.Intent = intent
	}

	return event, nil
}
