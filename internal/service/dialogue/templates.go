package dialogue

// Ключи шаблонов исходящих ответов
// Тексты на всех поддерживаемых языках живут на стороне транспорта
const (
	// TemplateGreeting приветствие без распознанного намерения
	TemplateGreeting = "greeting"

	// TemplateAskService вопрос про услугу
	TemplateAskService = "ask_service"

	// TemplateAskDate вопрос про дату
	TemplateAskDate = "ask_date"

	// TemplateOffers список предложений слотов
	TemplateOffers = "offers_list"

	// TemplateStaleOffer неопознанный или устаревший выбор слота;
	// текущие предложения прикладываются без изменений
	TemplateStaleOffer = "stale_offer"

	// TemplateConfirmRequest запрос явного подтверждения выбранного слота
	TemplateConfirmRequest = "confirm_request"

	// TemplateBookingCreated бронирование создано
	TemplateBookingCreated = "booking_created"

	// TemplateSlotTaken слот занят конкурентным запросом; приложен
	// обновлённый список предложений без занятого слота
	TemplateSlotTaken = "slot_taken_reoffer"

	// TemplateNoOffers свободных слотов нет, предложение очереди ожидания
	TemplateNoOffers = "no_offers_waitlist"

	// TemplateWaitlisted клиент поставлен в очередь ожидания
	TemplateWaitlisted = "waitlisted"

	// TemplateWaitlistDeclined клиент отказался от очереди ожидания
	TemplateWaitlistDeclined = "waitlist_declined"

	// TemplateDateInPast клиент запросил прошедшую дату
	TemplateDateInPast = "date_in_past"

	// TemplateRetryLater инфраструктурный сбой, общий ответ без деталей
	TemplateRetryLater = "retry_later"
)
