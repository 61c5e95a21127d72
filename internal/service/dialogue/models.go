package dialogue

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
)

// EventKind тип входящего события
type EventKind string

const (
	KindText   EventKind = "TEXT"
	KindButton EventKind = "BUTTON"
)

// Payload-константы служебных кнопок
// Кнопки выбора слота несут id предложения и с этими значениями не пересекаются
const (
	PayloadConfirm     = "confirm"
	PayloadDecline     = "decline"
	PayloadChange      = "change"
	PayloadWaitlistYes = "waitlist:yes"
	PayloadWaitlistNo  = "waitlist:no"
)

// DetectedIntent подсказки, извлечённые классификатором из текста
// Присутствие поля означает только, что оно распознано: валидацию значений
// по каталогу выполняет движок, невалидные подсказки игнорируются
type DetectedIntent struct {
	BookingIntent bool
	Confirm       bool
	Decline       bool

	ServiceID   *int64
	ServiceName *string
	StaffID     *int64
	StaffName   *string
	Date        *time.Time
}

// HasBookingHints возвращает true, если намерение несёт что-то бронировочное
func (i *DetectedIntent) HasBookingHints() bool {
	if i == nil {
		return false
	}
	return i.BookingIntent || i.ServiceID != nil || i.ServiceName != nil ||
		i.StaffID != nil || i.StaffName != nil || i.Date != nil
}

// InboundEvent входящее событие чата
type InboundEvent struct {
	BusinessID int64
	CustomerID int64

	Kind    EventKind
	Payload string // текст сообщения либо payload кнопки

	DetectedLanguage   string
	LanguageConfidence float64

	// Intent задан, когда классификация выполнена до вызова движка;
	// для TEXT-событий без Intent движок вызывает классификатор сам
	Intent *DetectedIntent
}

// OfferButton кнопка выбора слота в ответе
type OfferButton struct {
	OfferID      string `json:"offerId"`
	DisplayLabel string `json:"displayLabel"`
}

// OutboundReply исходящий ответ движка
// Движок только выбирает шаблон и аргументы; текст на языке клиента
// рендерит транспорт
type OutboundReply struct {
	BusinessID   int64             `json:"businessId"`
	CustomerID   int64             `json:"customerId"`
	TemplateKey  string            `json:"templateKey"`
	TemplateArgs map[string]string `json:"templateArgs,omitempty"`
	Offers       []OfferButton     `json:"offers,omitempty"`
	Language     string            `json:"language"`
}

// offerButtons строит кнопки для списка предложений
func offerButtons(offers []domain.SlotOffer) []OfferButton {
	buttons := make([]OfferButton, 0, len(offers))
	for _, offer := range offers {
		buttons = append(buttons, OfferButton{
			OfferID:      offer.ID,
			DisplayLabel: offer.Date.Format("02.01") + " " + offer.StartTime.String(),
		})
	}
	return buttons
}
