package messenger

// OfferButton кнопка выбора слота в сообщении
type OfferButton struct {
	OfferID      string `json:"offerId"`
	DisplayLabel string `json:"displayLabel"`
}

// Message исходящее сообщение для транспорта
// Сервис выбирает только ключ шаблона и аргументы; рендеринг текста
// на языке клиента выполняет транспорт
type Message struct {
	BusinessID   int64             `json:"businessId"`
	CustomerID   int64             `json:"customerId"`
	TemplateKey  string            `json:"templateKey"`
	TemplateArgs map[string]string `json:"templateArgs,omitempty"`
	Offers       []OfferButton     `json:"offers,omitempty"`
	Language     string            `json:"language"`
}
