package nlu

import "time"

// Intent структурированный результат классификации входящего текста
// Каждое поле-подсказка опционально: присутствие означает, что классификатор
// распознал поле, а не что значение валидно для бизнеса. Валидация значений
// по каталогу остается за диалоговым движком
type Intent struct {
	BookingIntent bool `json:"bookingIntent"`
	Confirm       bool `json:"confirm"`
	Decline       bool `json:"decline"`

	ServiceID   *int64     `json:"serviceId,omitempty"`
	ServiceName *string    `json:"serviceName,omitempty"`
	StaffID     *int64     `json:"staffId,omitempty"`
	StaffName   *string    `json:"staffName,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// classifyRequest модель запроса к классификатору
type classifyRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}
