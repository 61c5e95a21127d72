package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ChatBookingService/internal/integrations/nlu"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/allocate_booking"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
)

// Engine диалоговый движок: конечный автомат состояний сессии
// События одной пары (бизнес, клиент) обрабатываются строго последовательно
// через SessionLocker; разные пары не блокируют друг друга.
// Любая ошибка внутри шага возвращает сессию в ближайшее стабильное
// состояние; abandoned наступает только по таймауту неактивности
type Engine struct {
	sessions   SessionRepository
	catalog    CatalogRepository
	slotFinder SlotFinder
	allocator  Allocator
	waitlist   WaitlistService
	classifier IntentClassifier
	locker     SessionLocker

	sessionTTL        time.Duration
	maxOffers         int
	languageThreshold float64

	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics
}

// NewEngine создает новый экземпляр диалогового движка
func NewEngine(
	sessions SessionRepository,
	catalog CatalogRepository,
	slotFinder SlotFinder,
	allocator Allocator,
	waitlist WaitlistService,
	classifier IntentClassifier,
	locker SessionLocker,
	sessionTTLMinutes int,
	maxOffers int,
	languageThreshold float64,
	logger Logger,
	metrics Metrics,
) *Engine {
	if sessionTTLMinutes <= 0 {
		sessionTTLMinutes = domain.DefaultSessionTTLMinutes
	}
	if maxOffers <= 0 {
		maxOffers = domain.DefaultMaxOffers
	}
	if languageThreshold <= 0 {
		languageThreshold = domain.DefaultLanguageConfidence
	}
	return &Engine{
		sessions:          sessions,
		catalog:           catalog,
		slotFinder:        slotFinder,
		allocator:         allocator,
		waitlist:          waitlist,
		classifier:        classifier,
		locker:            locker,
		sessionTTL:        time.Duration(sessionTTLMinutes) * time.Minute,
		maxOffers:         maxOffers,
		languageThreshold: languageThreshold,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
		metrics:           metrics,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (e *Engine) WithTimeProvider(tp TimeProvider) *Engine {
	e.timeProvider = tp
	return e
}

// HandleEvent обрабатывает входящее событие чата и возвращает ответ
func (e *Engine) HandleEvent(ctx context.Context, event *InboundEvent) (*OutboundReply, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	key := sessionKey(event.BusinessID, event.CustomerID)
	e.locker.Lock(key)
	defer e.locker.Unlock(key)

	now := e.timeProvider.Now()

	session, isNew, err := e.loadSession(ctx, event, now)
	if err != nil {
		return nil, err
	}
	fromState := session.State

	e.updateLanguage(session, event)

	intent := e.resolveIntent(ctx, event, session.Language)

	reply := e.dispatch(ctx, session, event, intent, now)

	session.LastActivityAt = now
	if err := e.persist(ctx, session, isNew); err != nil {
		e.logger.Error("HandleEvent: failed to persist session business=%d, customer=%d: %v",
			event.BusinessID, event.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to persist session: %v", ErrInternal, err)
	}

	if fromState != session.State {
		e.metrics.ObserveTransition(string(fromState), string(session.State))
		e.logger.Info("HandleEvent: session business=%d, customer=%d: %s -> %s",
			event.BusinessID, event.CustomerID, fromState, session.State)
	}

	return reply, nil
}

// RunExpirySweep переводит в abandoned все сессии, неактивные дольше TTL
// Дополняет ленивую проверку на загрузке; вызывается по расписанию
func (e *Engine) RunExpirySweep(ctx context.Context) (int64, error) {
	threshold := e.timeProvider.Now().Add(-e.sessionTTL)

	count, err := e.sessions.MarkAbandoned(ctx, threshold)
	if err != nil {
		e.logger.Error("RunExpirySweep: failed to mark abandoned sessions: %v", err)
		return 0, fmt.Errorf("%w: expiry sweep: %v", ErrInternal, err)
	}

	if count > 0 {
		e.logger.Info("RunExpirySweep: marked %d sessions abandoned", count)
	}
	return count, nil
}

// loadSession загружает живую сессию пары или создает новую
// Истёкшая сессия лениво переводится в abandoned и замещается новой;
// завершённая сессия просто замещается
func (e *Engine) loadSession(ctx context.Context, event *InboundEvent, now time.Time) (*domain.DialogueSession, bool, error) {
	session, err := e.sessions.GetByPair(ctx, event.BusinessID, event.CustomerID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return e.newSession(event, now), true, nil
		}
		e.logger.Error("loadSession: failed to get session business=%d, customer=%d: %v",
			event.BusinessID, event.CustomerID, err)
		return nil, false, fmt.Errorf("%w: failed to load session: %v", ErrInternal, err)
	}

	if session.State.IsTerminal() {
		return e.newSession(event, now), true, nil
	}

	if session.IsExpired(now, e.sessionTTL) {
		e.metrics.ObserveTransition(string(session.State), string(domain.StateAbandoned))
		e.logger.Info("loadSession: session business=%d, customer=%d expired, replacing",
			event.BusinessID, event.CustomerID)
		fresh := e.newSession(event, now)
		fresh.Language = session.Language
		return fresh, true, nil
	}

	return session, false, nil
}

func (e *Engine) newSession(event *InboundEvent, now time.Time) *domain.DialogueSession {
	return &domain.DialogueSession{
		BusinessID:     event.BusinessID,
		CustomerID:     event.CustomerID,
		State:          domain.StateIdle,
		Language:       domain.DefaultLanguage,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

func (e *Engine) persist(ctx context.Context, session *domain.DialogueSession, isNew bool) error {
	if isNew {
		_, err := e.sessions.Replace(ctx, session)
		return err
	}
	return e.sessions.Update(ctx, session)
}

// updateLanguage обновляет язык сессии при достаточной уверенности детекции
// Все последующие шаблоны используют текущий язык сессии, а не язык
// сообщения, с которого диалог начался
func (e *Engine) updateLanguage(session *domain.DialogueSession, event *InboundEvent) {
	if event.DetectedLanguage == "" {
		return
	}
	if event.LanguageConfidence >= e.languageThreshold {
		session.Language = event.DetectedLanguage
	}
}

// resolveIntent возвращает подсказки классификатора для события
// Для текста без готовых подсказок вызывает внешний классификатор;
// его недоступность деградирует до диалога без подсказок
func (e *Engine) resolveIntent(ctx context.Context, event *InboundEvent, language string) *DetectedIntent {
	if event.Intent != nil {
		return event.Intent
	}
	if event.Kind != KindText || e.classifier == nil {
		return nil
	}

	raw, err := e.classifier.ClassifyWithGracefulDegradation(ctx, event.Payload, language)
	if err != nil {
		e.logger.Warn("resolveIntent: classifier degraded for business=%d, customer=%d: %v",
			event.BusinessID, event.CustomerID, err)
		return nil
	}

	return fromNLUIntent(raw)
}

// dispatch обрабатывает событие в контексте текущего состояния сессии
func (e *Engine) dispatch(ctx context.Context, session *domain.DialogueSession, event *InboundEvent, intent *DetectedIntent, now time.Time) *OutboundReply {
	switch session.State {
	case domain.StateIdle:
		return e.handleIdle(ctx, session, intent, now)
	case domain.StateCollecting:
		return e.handleCollecting(ctx, session, intent, now)
	case domain.StateOffering:
		return e.handleOffering(ctx, session, event, intent, now)
	case domain.StateWaitlistOffered:
		return e.handleWaitlistOffered(ctx, session, event, intent)
	case domain.StateConfirming:
		return e.handleConfirming(ctx, session, event, intent, now)
	default:
		// Терминальные состояния замещаются при загрузке и сюда не попадают
		e.logger.Warn("dispatch: unexpected state %s for business=%d, customer=%d",
			session.State, session.BusinessID, session.CustomerID)
		return e.reply(session, TemplateGreeting, nil, nil)
	}
}

// handleIdle обрабатывает событие без активного намерения бронирования
func (e *Engine) handleIdle(ctx context.Context, session *domain.DialogueSession, intent *DetectedIntent, now time.Time) *OutboundReply {
	if !intent.HasBookingHints() {
		return e.reply(session, TemplateGreeting, nil, nil)
	}

	session.State = domain.StateCollecting
	return e.handleCollecting(ctx, session, intent, now)
}

// handleCollecting дособирает обязательные поля: услугу и дату
// Единственная активная услуга и единственный активный мастер
// автозаполняются, соответствующий вопрос пропускается
func (e *Engine) handleCollecting(ctx context.Context, session *domain.DialogueSession, intent *DetectedIntent, now time.Time) *OutboundReply {
	if hintReply := e.applyHints(ctx, session, intent, now); hintReply != nil {
		return hintReply
	}

	e.autofillSingles(ctx, session)

	if !session.FieldsCollected() {
		if session.KnownServiceID == nil {
			return e.reply(session, TemplateAskService, nil, nil)
		}
		return e.reply(session, TemplateAskDate, nil, nil)
	}

	return e.runOffering(ctx, session, nil)
}

// handleOffering обрабатывает выбор слота из списка предложений
// Неопознанный или устаревший id оставляет состояние offering,
// текущие предложения пересылаются без изменений
func (e *Engine) handleOffering(ctx context.Context, session *domain.DialogueSession, event *InboundEvent, intent *DetectedIntent, now time.Time) *OutboundReply {
	if event.Kind == KindButton {
		if offer := session.FindOffer(event.Payload); offer != nil {
			selected := *offer
			session.SelectedOffer = &selected
			session.State = domain.StateConfirming
			return e.confirmRequestReply(session, &selected)
		}

		e.logger.Info("handleOffering: unrecognized offer id=%q for business=%d, customer=%d",
			event.Payload, session.BusinessID, session.CustomerID)
		return e.resendOffers(session, TemplateStaleOffer)
	}

	// Текст с новыми параметрами: клиент меняет запрос до выбора слота
	if intent.HasBookingHints() {
		if hintReply := e.applyHints(ctx, session, intent, now); hintReply != nil {
			return hintReply
		}
		session.State = domain.StateCollecting
		return e.handleCollecting(ctx, session, nil, now)
	}

	return e.resendOffers(session, TemplateStaleOffer)
}

// handleWaitlistOffered обрабатывает ответ на предложение очереди ожидания
func (e *Engine) handleWaitlistOffered(ctx context.Context, session *domain.DialogueSession, event *InboundEvent, intent *DetectedIntent) *OutboundReply {
	optIn := event.Payload == PayloadWaitlistYes || (intent != nil && intent.Confirm)
	decline := event.Payload == PayloadWaitlistNo || (intent != nil && intent.Decline)

	switch {
	case optIn:
		entry := &domain.WaitlistEntry{
			BusinessID:  session.BusinessID,
			CustomerID:  session.CustomerID,
			ServiceID:   *session.KnownServiceID,
			StaffID:     session.KnownStaffID,
			DesiredDate: *session.RequestedDate,
		}

		created, err := e.waitlist.Enqueue(ctx, entry)
		if err != nil {
			e.logger.Error("handleWaitlistOffered: enqueue failed for business=%d, customer=%d: %v",
				session.BusinessID, session.CustomerID, err)
			return e.reply(session, TemplateRetryLater, nil, nil)
		}

		session.State = domain.StateWaitlisted
		return e.reply(session, TemplateWaitlisted, map[string]string{
			"date":     created.DesiredDate.Format(domain.DateFormat),
			"position": strconv.Itoa(created.Position),
		}, nil)

	case decline:
		session.State = domain.StateAbandoned
		return e.reply(session, TemplateWaitlistDeclined, nil, nil)

	default:
		return e.reply(session, TemplateNoOffers, map[string]string{
			"date": session.RequestedDate.Format(domain.DateFormat),
		}, nil)
	}
}

// handleConfirming обрабатывает явное подтверждение выбранного слота
func (e *Engine) handleConfirming(ctx context.Context, session *domain.DialogueSession, event *InboundEvent, intent *DetectedIntent, now time.Time) *OutboundReply {
	confirm := event.Payload == PayloadConfirm || (intent != nil && intent.Confirm)
	decline := event.Payload == PayloadDecline || event.Payload == PayloadChange ||
		(intent != nil && intent.Decline)

	if confirm {
		return e.allocateSelected(ctx, session, now)
	}

	if decline {
		// Клиент хочет другой слот: назад к текущему списку предложений
		session.SelectedOffer = nil
		session.State = domain.StateOffering
		return e.resendOffers(session, TemplateOffers)
	}

	// Текст с новыми параметрами: клиент меняет услугу или дату
	if intent.HasBookingHints() {
		if hintReply := e.applyHints(ctx, session, intent, now); hintReply != nil {
			return hintReply
		}
		session.SelectedOffer = nil
		session.PendingOffers = nil
		session.State = domain.StateCollecting
		return e.handleCollecting(ctx, session, nil, now)
	}

	if session.SelectedOffer == nil {
		session.State = domain.StateOffering
		return e.resendOffers(session, TemplateOffers)
	}
	return e.confirmRequestReply(session, session.SelectedOffer)
}

// allocateSelected вызывает аллокатор для выбранного слота
// ErrSlotTaken возвращает диалог в offering с обновлённым списком без
// занятого слота; инфраструктурные сбои оставляют состояние неизменным
func (e *Engine) allocateSelected(ctx context.Context, session *domain.DialogueSession, now time.Time) *OutboundReply {
	offer := session.SelectedOffer
	if offer == nil {
		session.State = domain.StateOffering
		return e.resendOffers(session, TemplateOffers)
	}

	resp, err := e.allocator.Execute(ctx, &allocate_booking.Request{
		BusinessID: session.BusinessID,
		StaffID:    offer.StaffID,
		ServiceID:  offer.ServiceID,
		CustomerID: session.CustomerID,
		Date:       offer.Date,
		StartTime:  offer.StartTime,
	})

	if err == nil {
		e.metrics.ObserveAllocation("created")
		session.State = domain.StateDone
		session.PendingOffers = nil
		return e.reply(session, TemplateBookingCreated, map[string]string{
			"code": resp.BookingCode,
			"date": resp.BookingDate.Format(domain.DateFormat),
			"time": resp.StartTime.String(),
		}, nil)
	}

	switch {
	case errors.Is(err, allocate_booking.ErrSlotTaken):
		e.metrics.ObserveAllocation("conflict")
		return e.reofferAfterConflict(ctx, session, offer)

	case errors.Is(err, allocate_booking.ErrStartInPast),
		errors.Is(err, allocate_booking.ErrOutsideWorkingHours):
		// Предложение устарело между показом и подтверждением
		e.metrics.ObserveAllocation("rejected")
		return e.reofferAfterConflict(ctx, session, offer)

	case errors.Is(err, allocate_booking.ErrStaffNotFound):
		e.metrics.ObserveAllocation("rejected")
		session.KnownStaffID = nil
		session.SelectedOffer = nil
		session.PendingOffers = nil
		session.State = domain.StateCollecting
		return e.handleCollecting(ctx, session, nil, now)

	case errors.Is(err, allocate_booking.ErrServiceNotFound):
		e.metrics.ObserveAllocation("rejected")
		session.KnownServiceID = nil
		session.SelectedOffer = nil
		session.PendingOffers = nil
		session.State = domain.StateCollecting
		return e.handleCollecting(ctx, session, nil, now)

	default:
		// Инфраструктурный сбой: состояние не меняется, повтор безопасен
		e.metrics.ObserveAllocation("error")
		e.logger.Error("allocateSelected: allocation failed for business=%d, customer=%d: %v",
			session.BusinessID, session.CustomerID, err)
		return e.reply(session, TemplateRetryLater, nil, nil)
	}
}

// reofferAfterConflict обновляет список предложений, исключая занятый слот
func (e *Engine) reofferAfterConflict(ctx context.Context, session *domain.DialogueSession, taken *domain.SlotOffer) *OutboundReply {
	session.SelectedOffer = nil

	resp, err := e.findOffers(ctx, session)
	if err != nil {
		// Ближайшее стабильное состояние: offering со старым списком
		e.logger.Error("reofferAfterConflict: slot refresh failed for business=%d, customer=%d: %v",
			session.BusinessID, session.CustomerID, err)
		session.State = domain.StateOffering
		return e.reply(session, TemplateRetryLater, nil, nil)
	}

	offers := excludeOffer(resp.Offers, taken)
	if len(offers) == 0 {
		session.PendingOffers = nil
		session.State = domain.StateWaitlistOffered
		return e.reply(session, TemplateNoOffers, map[string]string{
			"date": session.RequestedDate.Format(domain.DateFormat),
		}, nil)
	}

	session.PendingOffers = offers
	session.State = domain.StateOffering
	return e.reply(session, TemplateSlotTaken, nil, offerButtons(offers))
}

// runOffering запускает поиск слотов и переводит диалог в offering
// или, при пустом результате, к предложению очереди ожидания
func (e *Engine) runOffering(ctx context.Context, session *domain.DialogueSession, exclude *domain.SlotOffer) *OutboundReply {
	resp, err := e.findOffers(ctx, session)
	if err != nil {
		// Ближайшее стабильное состояние: collecting, клиент не теряется
		e.logger.Error("runOffering: slot search failed for business=%d, customer=%d: %v",
			session.BusinessID, session.CustomerID, err)
		session.State = domain.StateCollecting
		return e.reply(session, TemplateRetryLater, nil, nil)
	}

	offers := excludeOffer(resp.Offers, exclude)
	if len(offers) == 0 {
		session.PendingOffers = nil
		session.State = domain.StateWaitlistOffered
		return e.reply(session, TemplateNoOffers, map[string]string{
			"date": session.RequestedDate.Format(domain.DateFormat),
		}, nil)
	}

	session.PendingOffers = offers
	session.SelectedOffer = nil
	session.State = domain.StateOffering
	return e.reply(session, TemplateOffers, map[string]string{
		"date": session.RequestedDate.Format(domain.DateFormat),
	}, offerButtons(offers))
}

func (e *Engine) findOffers(ctx context.Context, session *domain.DialogueSession) (*find_slots.Response, error) {
	return e.slotFinder.Execute(ctx, &find_slots.Request{
		BusinessID: session.BusinessID,
		StaffID:    session.KnownStaffID,
		ServiceID:  session.KnownServiceID,
		FromDate:   *session.RequestedDate,
		ToDate:     *session.RequestedDate,
		MaxResults: e.maxOffers,
	})
}

// applyHints применяет подсказки классификатора к полям сессии
// Каждая подсказка валидируется по каталогу; невалидная игнорируется,
// движок переспросит поле обычным путем. Ненулевой ответ прерывает шаг
func (e *Engine) applyHints(ctx context.Context, session *domain.DialogueSession, intent *DetectedIntent, now time.Time) *OutboundReply {
	if intent == nil {
		return nil
	}

	if intent.ServiceID != nil {
		if service, err := e.catalog.GetService(ctx, session.BusinessID, *intent.ServiceID); err == nil && service.Active {
			session.KnownServiceID = &service.ID
		} else {
			e.logger.Warn("applyHints: ignoring invalid service id=%d for business=%d", *intent.ServiceID, session.BusinessID)
		}
	} else if intent.ServiceName != nil {
		if service, err := e.catalog.FindServiceByName(ctx, session.BusinessID, *intent.ServiceName); err == nil && service.Active {
			session.KnownServiceID = &service.ID
		} else {
			e.logger.Warn("applyHints: ignoring unknown service name=%q for business=%d", *intent.ServiceName, session.BusinessID)
		}
	}

	if intent.StaffID != nil {
		if staff, err := e.catalog.GetStaff(ctx, session.BusinessID, *intent.StaffID); err == nil && staff.Active {
			session.KnownStaffID = &staff.ID
		} else {
			e.logger.Warn("applyHints: ignoring invalid staff id=%d for business=%d", *intent.StaffID, session.BusinessID)
		}
	} else if intent.StaffName != nil {
		if staff, err := e.catalog.FindStaffByName(ctx, session.BusinessID, *intent.StaffName); err == nil && staff.Active {
			session.KnownStaffID = &staff.ID
		} else {
			e.logger.Warn("applyHints: ignoring unknown staff name=%q for business=%d", *intent.StaffName, session.BusinessID)
		}
	}

	if intent.Date != nil {
		date := truncateToDay(*intent.Date)
		if date.Before(truncateToDay(now)) {
			return e.reply(session, TemplateDateInPast, map[string]string{
				"date": date.Format(domain.DateFormat),
			}, nil)
		}
		session.RequestedDate = &date
	}

	return nil
}

// autofillSingles автозаполняет единственную активную услугу и мастера
// Ошибки каталога здесь не фатальны: поле просто будет спрошено явно
func (e *Engine) autofillSingles(ctx context.Context, session *domain.DialogueSession) {
	if session.KnownServiceID == nil {
		services, err := e.catalog.ListActiveServices(ctx, session.BusinessID)
		if err != nil {
			e.logger.Warn("autofillSingles: failed to list services for business=%d: %v", session.BusinessID, err)
		} else if len(services) == 1 {
			session.KnownServiceID = &services[0].ID
		}
	}

	if session.KnownStaffID == nil {
		staffList, err := e.catalog.ListActiveStaff(ctx, session.BusinessID)
		if err != nil {
			e.logger.Warn("autofillSingles: failed to list staff for business=%d: %v", session.BusinessID, err)
		} else if len(staffList) == 1 {
			session.KnownStaffID = &staffList[0].ID
		}
	}
}

// Helpers

func (e *Engine) reply(session *domain.DialogueSession, templateKey string, args map[string]string, offers []OfferButton) *OutboundReply {
	return &OutboundReply{
		BusinessID:   session.BusinessID,
		CustomerID:   session.CustomerID,
		TemplateKey:  templateKey,
		TemplateArgs: args,
		Offers:       offers,
		Language:     session.Language,
	}
}

func (e *Engine) resendOffers(session *domain.DialogueSession, templateKey string) *OutboundReply {
	return e.reply(session, templateKey, nil, offerButtons(session.PendingOffers))
}

func (e *Engine) confirmRequestReply(session *domain.DialogueSession, offer *domain.SlotOffer) *OutboundReply {
	return e.reply(session, TemplateConfirmRequest, map[string]string{
		"date": offer.Date.Format(domain.DateFormat),
		"time": offer.StartTime.String(),
	}, []OfferButton{
		{OfferID: PayloadConfirm, DisplayLabel: PayloadConfirm},
		{OfferID: PayloadDecline, DisplayLabel: PayloadDecline},
	})
}

func validateEvent(event *InboundEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}
	if event.BusinessID <= 0 || event.CustomerID <= 0 {
		return fmt.Errorf("%w: businessID and customerID must be positive", ErrInvalidEvent)
	}
	if event.Kind != KindText && event.Kind != KindButton {
		return fmt.Errorf("%w: unknown event kind %q", ErrInvalidEvent, event.Kind)
	}
	return nil
}

func sessionKey(businessID, customerID int64) string {
	return strconv.FormatInt(businessID, 10) + ":" + strconv.FormatInt(customerID, 10)
}

func fromNLUIntent(raw *nlu.Intent) *DetectedIntent {
	if raw == nil {
		return nil
	}
	return &DetectedIntent{
		BookingIntent: raw.BookingIntent,
		Confirm:       raw.Confirm,
		Decline:       raw.Decline,
		ServiceID:     raw.ServiceID,
		ServiceName:   raw.ServiceName,
		StaffID:       raw.StaffID,
		StaffName:     raw.StaffName,
		Date:          raw.Date,
	}
}

func excludeOffer(offers []domain.SlotOffer, exclude *domain.SlotOffer) []domain.SlotOffer {
	if exclude == nil {
		return offers
	}
	result := make([]domain.SlotOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.StaffID == exclude.StaffID &&
			offer.StartTime == exclude.StartTime &&
			offer.Date.Equal(exclude.Date) {
			continue
		}
		result = append(result, offer)
	}
	return result
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
