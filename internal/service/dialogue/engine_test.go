package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/catalog"
	sessionRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ChatBookingService/internal/integrations/nlu"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/allocate_booking"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
	"github.com/m04kA/SMC-ChatBookingService/pkg/keymutex"
	"github.com/m04kA/SMC-ChatBookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSessionRepo struct {
	sessions map[string]*domain.DialogueSession
	nextID   int64
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.DialogueSession)}
}

func pairKey(businessID, customerID int64) string {
	return sessionKey(businessID, customerID)
}

func (f *fakeSessionRepo) GetByPair(_ context.Context, businessID, customerID int64) (*domain.DialogueSession, error) {
	s, ok := f.sessions[pairKey(businessID, customerID)]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) Replace(_ context.Context, s *domain.DialogueSession) (*domain.DialogueSession, error) {
	f.nextID++
	s.ID = f.nextID
	copied := *s
	f.sessions[pairKey(s.BusinessID, s.CustomerID)] = &copied
	return s, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *domain.DialogueSession) error {
	key := pairKey(s.BusinessID, s.CustomerID)
	if _, ok := f.sessions[key]; !ok {
		return sessionRepo.ErrSessionNotFound
	}
	copied := *s
	f.sessions[key] = &copied
	return nil
}

func (f *fakeSessionRepo) MarkAbandoned(_ context.Context, inactiveSince time.Time) (int64, error) {
	var count int64
	for _, s := range f.sessions {
		if !s.State.IsTerminal() && s.LastActivityAt.Before(inactiveSince) {
			s.State = domain.StateAbandoned
			count++
		}
	}
	return count, nil
}

func (f *fakeSessionRepo) stored(businessID, customerID int64) *domain.DialogueSession {
	return f.sessions[pairKey(businessID, customerID)]
}

type fakeCatalog struct {
	staff    map[int64]*domain.Staff
	services map[int64]*domain.ServiceSpec
}

func (f *fakeCatalog) GetStaff(_ context.Context, _, staffID int64) (*domain.Staff, error) {
	if s, ok := f.staff[staffID]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrStaffNotFound
}

func (f *fakeCatalog) GetService(_ context.Context, _, serviceID int64) (*domain.ServiceSpec, error) {
	if s, ok := f.services[serviceID]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (f *fakeCatalog) ListActiveStaff(_ context.Context, _ int64) ([]*domain.Staff, error) {
	result := make([]*domain.Staff, 0)
	for id := int64(1); id <= 100; id++ {
		if s, ok := f.staff[id]; ok && s.Active {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeCatalog) ListActiveServices(_ context.Context, _ int64) ([]*domain.ServiceSpec, error) {
	result := make([]*domain.ServiceSpec, 0)
	for id := int64(1); id <= 100; id++ {
		if s, ok := f.services[id]; ok && s.Active {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeCatalog) FindServiceByName(_ context.Context, _ int64, name string) (*domain.ServiceSpec, error) {
	for _, s := range f.services {
		if s.Name == name && s.Active {
			return s, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (f *fakeCatalog) FindStaffByName(_ context.Context, _ int64, name string) (*domain.Staff, error) {
	for _, s := range f.staff {
		if s.Name == name && s.Active {
			return s, nil
		}
	}
	return nil, catalogRepo.ErrStaffNotFound
}

type fakeSlotFinder struct {
	offers []domain.SlotOffer
	err    error
	calls  int
}

func (f *fakeSlotFinder) Execute(_ context.Context, req *find_slots.Request) (*find_slots.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &find_slots.Response{BusinessID: req.BusinessID, Offers: f.offers}, nil
}

type fakeAllocator struct {
	resp  *allocate_booking.Response
	err   error
	calls []*allocate_booking.Request
}

func (f *fakeAllocator) Execute(_ context.Context, req *allocate_booking.Request) (*allocate_booking.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeWaitlist struct {
	entries []*domain.WaitlistEntry
	err     error
}

func (f *fakeWaitlist) Enqueue(_ context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	entry.ID = int64(len(f.entries) + 1)
	entry.Position = len(f.entries) + 1
	entry.Status = domain.WaitlistActive
	f.entries = append(f.entries, entry)
	return entry, nil
}

type degradedClassifier struct{}

func (degradedClassifier) ClassifyWithGracefulDegradation(context.Context, string, string) (*nlu.Intent, error) {
	return nil, errors.New("nlu unavailable: connection refused")
}

type fakeMetrics struct {
	transitions [][2]string
	allocations []string
}

func (m *fakeMetrics) ObserveTransition(from, to string) {
	m.transitions = append(m.transitions, [2]string{from, to})
}

func (m *fakeMetrics) ObserveAllocation(outcome string) {
	m.allocations = append(m.allocations, outcome)
}

// 2026-01-05 - понедельник
var (
	monday  = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)
)

type engineFixture struct {
	engine     *Engine
	sessions   *fakeSessionRepo
	catalog    *fakeCatalog
	slotFinder *fakeSlotFinder
	allocator  *fakeAllocator
	waitlist   *fakeWaitlist
	metrics    *fakeMetrics
}

func newFixture() *engineFixture {
	f := &engineFixture{
		sessions: newFakeSessionRepo(),
		catalog: &fakeCatalog{
			staff: map[int64]*domain.Staff{
				7: {ID: 7, BusinessID: 1, Name: "Анна", Active: true},
			},
			services: map[int64]*domain.ServiceSpec{
				3: {ID: 3, BusinessID: 1, Name: "Стрижка", DurationMinutes: 60, Active: true},
			},
		},
		slotFinder: &fakeSlotFinder{},
		allocator:  &fakeAllocator{},
		waitlist:   &fakeWaitlist{},
		metrics:    &fakeMetrics{},
	}
	f.engine = NewEngine(
		f.sessions,
		f.catalog,
		f.slotFinder,
		f.allocator,
		f.waitlist,
		degradedClassifier{},
		keymutex.New(8),
		30,
		5,
		0.8,
		nopLogger{},
		f.metrics,
	).WithTimeProvider(fixedTime{now: testNow})
	return f
}

func textEvent(payload string, intent *DetectedIntent) *InboundEvent {
	return &InboundEvent{
		BusinessID: 1,
		CustomerID: 42,
		Kind:       KindText,
		Payload:    payload,
		Intent:     intent,
	}
}

func buttonEvent(payload string) *InboundEvent {
	return &InboundEvent{
		BusinessID: 1,
		CustomerID: 42,
		Kind:       KindButton,
		Payload:    payload,
	}
}

func sampleOffers() []domain.SlotOffer {
	return []domain.SlotOffer{
		{ID: "of-1", StaffID: 7, ServiceID: ptr.Ptr(int64(3)), Date: monday, StartTime: "10:00", DurationMinutes: 60},
		{ID: "of-2", StaffID: 7, ServiceID: ptr.Ptr(int64(3)), Date: monday, StartTime: "11:00", DurationMinutes: 60},
	}
}

func (f *engineFixture) seedSession(s *domain.DialogueSession) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = testNow
	}
	if s.LastActivityAt.IsZero() {
		s.LastActivityAt = testNow
	}
	if s.Language == "" {
		s.Language = "ru"
	}
	copied := *s
	f.sessions.nextID++
	copied.ID = f.sessions.nextID
	f.sessions.sessions[pairKey(s.BusinessID, s.CustomerID)] = &copied
}

func collectingSession() *domain.DialogueSession {
	return &domain.DialogueSession{
		BusinessID:     1,
		CustomerID:     42,
		State:          domain.StateCollecting,
		KnownServiceID: ptr.Ptr(int64(3)),
		RequestedDate:  ptr.Ptr(monday),
	}
}

func TestHandleEvent_GreetingWithoutIntent(t *testing.T) {
	f := newFixture()

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("привет", nil))
	require.NoError(t, err)

	assert.Equal(t, TemplateGreeting, reply.TemplateKey)
	stored := f.sessions.stored(1, 42)
	require.NotNil(t, stored)
	assert.Equal(t, domain.StateIdle, stored.State)
}

func TestHandleEvent_SingleServiceAndStaffSkipQuestions(t *testing.T) {
	// Единственная услуга и единственный мастер автозаполняются:
	// с одной только датой диалог сразу переходит к предложениям
	f := newFixture()
	f.slotFinder.offers = sampleOffers()

	date := monday
	intent := &DetectedIntent{BookingIntent: true, Date: &date}

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("хочу записаться на понедельник", intent))
	require.NoError(t, err)

	assert.Equal(t, TemplateOffers, reply.TemplateKey)
	require.Len(t, reply.Offers, 2)
	assert.Equal(t, "of-1", reply.Offers[0].OfferID)

	stored := f.sessions.stored(1, 42)
	assert.Equal(t, domain.StateOffering, stored.State)
	require.NotNil(t, stored.KnownServiceID)
	assert.Equal(t, int64(3), *stored.KnownServiceID)
	require.NotNil(t, stored.KnownStaffID)
	assert.Equal(t, int64(7), *stored.KnownStaffID)
	assert.Len(t, stored.PendingOffers, 2)
}

func TestHandleEvent_AsksForMissingFields(t *testing.T) {
	f := newFixture()
	// Две услуги: автозаполнение не срабатывает
	f.catalog.services[4] = &domain.ServiceSpec{ID: 4, BusinessID: 1, Name: "Маникюр", DurationMinutes: 30, Active: true}

	t.Run("asks service first", func(t *testing.T) {
		intent := &DetectedIntent{BookingIntent: true}
		reply, err := f.engine.HandleEvent(context.Background(), textEvent("хочу записаться", intent))
		require.NoError(t, err)
		assert.Equal(t, TemplateAskService, reply.TemplateKey)
		assert.Equal(t, domain.StateCollecting, f.sessions.stored(1, 42).State)
	})

	t.Run("asks date when service is known", func(t *testing.T) {
		intent := &DetectedIntent{ServiceID: ptr.Ptr(int64(3))}
		reply, err := f.engine.HandleEvent(context.Background(), textEvent("стрижку", intent))
		require.NoError(t, err)
		assert.Equal(t, TemplateAskDate, reply.TemplateKey)
	})
}

func TestHandleEvent_ServiceNameHintResolvedThroughCatalog(t *testing.T) {
	f := newFixture()
	f.slotFinder.offers = sampleOffers()

	name := "Стрижка"
	date := monday
	intent := &DetectedIntent{ServiceName: &name, Date: &date}

	_, err := f.engine.HandleEvent(context.Background(), textEvent("стрижка в понедельник", intent))
	require.NoError(t, err)

	stored := f.sessions.stored(1, 42)
	require.NotNil(t, stored.KnownServiceID)
	assert.Equal(t, int64(3), *stored.KnownServiceID)
}

func TestHandleEvent_InvalidHintIgnored(t *testing.T) {
	f := newFixture()
	f.catalog.services[4] = &domain.ServiceSpec{ID: 4, BusinessID: 1, Name: "Маникюр", DurationMinutes: 30, Active: true}

	intent := &DetectedIntent{ServiceID: ptr.Ptr(int64(999))}

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("запиши меня", intent))
	require.NoError(t, err)

	// Невалидная подсказка игнорируется, движок переспрашивает услугу
	assert.Equal(t, TemplateAskService, reply.TemplateKey)
	assert.Nil(t, f.sessions.stored(1, 42).KnownServiceID)
}

func TestHandleEvent_DateInPast(t *testing.T) {
	f := newFixture()

	past := testNow.AddDate(0, 0, -3)
	intent := &DetectedIntent{BookingIntent: true, Date: &past}

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("запиши на прошлую пятницу", intent))
	require.NoError(t, err)

	assert.Equal(t, TemplateDateInPast, reply.TemplateKey)
	assert.Nil(t, f.sessions.stored(1, 42).RequestedDate)
}

func TestHandleEvent_NoSlotsOffersWaitlist(t *testing.T) {
	f := newFixture()
	f.slotFinder.offers = nil

	date := monday
	intent := &DetectedIntent{BookingIntent: true, Date: &date}

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("на понедельник", intent))
	require.NoError(t, err)

	assert.Equal(t, TemplateNoOffers, reply.TemplateKey)
	assert.Equal(t, domain.StateWaitlistOffered, f.sessions.stored(1, 42).State)
}

func TestHandleEvent_SlotSearchFailureFallsBackToCollecting(t *testing.T) {
	f := newFixture()
	f.slotFinder.err = errors.New("find_slots: internal error")

	date := monday
	intent := &DetectedIntent{BookingIntent: true, Date: &date}

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("на понедельник", intent))
	require.NoError(t, err)

	assert.Equal(t, TemplateRetryLater, reply.TemplateKey)
	assert.Equal(t, domain.StateCollecting, f.sessions.stored(1, 42).State)
}

func TestHandleEvent_OfferSelection(t *testing.T) {
	f := newFixture()
	session := collectingSession()
	session.State = domain.StateOffering
	session.PendingOffers = sampleOffers()
	f.seedSession(session)

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent("of-2"))
	require.NoError(t, err)

	assert.Equal(t, TemplateConfirmRequest, reply.TemplateKey)
	stored := f.sessions.stored(1, 42)
	assert.Equal(t, domain.StateConfirming, stored.State)
	require.NotNil(t, stored.SelectedOffer)
	assert.Equal(t, "of-2", stored.SelectedOffer.ID)
}

func TestHandleEvent_StaleOfferResendsUnchanged(t *testing.T) {
	// Кнопка с устаревшим id: состояние offering сохраняется,
	// текущие предложения пересылаются без изменений
	f := newFixture()
	session := collectingSession()
	session.State = domain.StateOffering
	session.PendingOffers = sampleOffers()
	f.seedSession(session)

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent("of-expired"))
	require.NoError(t, err)

	assert.Equal(t, TemplateStaleOffer, reply.TemplateKey)
	require.Len(t, reply.Offers, 2)
	assert.Equal(t, "of-1", reply.Offers[0].OfferID)
	assert.Equal(t, "of-2", reply.Offers[1].OfferID)

	stored := f.sessions.stored(1, 42)
	assert.Equal(t, domain.StateOffering, stored.State)
	assert.Nil(t, stored.SelectedOffer)
	assert.Len(t, stored.PendingOffers, 2)
}

func TestHandleEvent_ConfirmCreatesBooking(t *testing.T) {
	f := newFixture()
	offers := sampleOffers()
	session := collectingSession()
	session.State = domain.StateConfirming
	session.PendingOffers = offers
	session.SelectedOffer = &offers[0]
	f.seedSession(session)

	f.allocator.resp = &allocate_booking.Response{
		ID:          55,
		BookingCode: "BK-A1B2C3",
		BookingDate: monday,
		StartTime:   "10:00",
		Status:      "confirmed",
	}

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent(PayloadConfirm))
	require.NoError(t, err)

	assert.Equal(t, TemplateBookingCreated, reply.TemplateKey)
	assert.Equal(t, "BK-A1B2C3", reply.TemplateArgs["code"])
	assert.Equal(t, domain.StateDone, f.sessions.stored(1, 42).State)
	assert.Equal(t, []string{"created"}, f.metrics.allocations)

	require.Len(t, f.allocator.calls, 1)
	call := f.allocator.calls[0]
	assert.Equal(t, int64(7), call.StaffID)
	assert.Equal(t, int64(42), call.CustomerID)
}

func TestHandleEvent_DeclineReturnsToOffers(t *testing.T) {
	f := newFixture()
	offers := sampleOffers()
	session := collectingSession()
	session.State = domain.StateConfirming
	session.PendingOffers = offers
	session.SelectedOffer = &offers[0]
	f.seedSession(session)

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent(PayloadDecline))
	require.NoError(t, err)

	assert.Equal(t, TemplateOffers, reply.TemplateKey)
	assert.Len(t, reply.Offers, 2)
	stored := f.sessions.stored(1, 42)
	assert.Equal(t, domain.StateOffering, stored.State)
	assert.Nil(t, stored.SelectedOffer)
}

func TestHandleEvent_SlotTakenReoffersWithoutTakenSlot(t *testing.T) {
	// Конкурент занял слот между показом и подтверждением: диалог
	// возвращается в offering с обновлённым списком без занятого слота
	f := newFixture()
	offers := sampleOffers()
	session := collectingSession()
	session.State = domain.StateConfirming
	session.PendingOffers = offers
	session.SelectedOffer = &offers[0]
	f.seedSession(session)

	f.allocator.err = allocate_booking.ErrSlotTaken
	f.slotFinder.offers = sampleOffers()

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent(PayloadConfirm))
	require.NoError(t, err)

	assert.Equal(t, TemplateSlotTaken, reply.TemplateKey)
	require.Len(t, reply.Offers, 1)
	assert.Equal(t, "of-2", reply.Offers[0].OfferID)

	stored := f.sessions.stored(1, 42)
	assert.Equal(t, domain.StateOffering, stored.State)
	assert.Equal(t, []string{"conflict"}, f.metrics.allocations)
}

func TestHandleEvent_SlotTakenAndNothingLeftOffersWaitlist(t *testing.T) {
	f := newFixture()
	offers := sampleOffers()[:1]
	session := collectingSession()
	session.State = domain.StateConfirming
	session.PendingOffers = offers
	session.SelectedOffer = &offers[0]
	f.seedSession(session)

	f.allocator.err = allocate_booking.ErrSlotTaken
	f.slotFinder.offers = sampleOffers()[:1] // остался только занятый слот

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent(PayloadConfirm))
	require.NoError(t, err)

	assert.Equal(t, TemplateNoOffers, reply.TemplateKey)
	assert.Equal(t, domain.StateWaitlistOffered, f.sessions.stored(1, 42).State)
}

func TestHandleEvent_AllocationInfraFailureKeepsState(t *testing.T) {
	f := newFixture()
	offers := sampleOffers()
	session := collectingSession()
	session.State = domain.StateConfirming
	session.PendingOffers = offers
	session.SelectedOffer = &offers[0]
	f.seedSession(session)

	f.allocator.err = allocate_booking.ErrInternal

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent(PayloadConfirm))
	require.NoError(t, err)

	// Состояние не меняется: повторное подтверждение безопасно
	assert.Equal(t, TemplateRetryLater, reply.TemplateKey)
	stored := f.sessions.stored(1, 42)
	assert.Equal(t, domain.StateConfirming, stored.State)
	require.NotNil(t, stored.SelectedOffer)
	assert.Equal(t, []string{"error"}, f.metrics.allocations)
}

func TestHandleEvent_WaitlistOptIn(t *testing.T) {
	f := newFixture()
	session := collectingSession()
	session.State = domain.StateWaitlistOffered
	f.seedSession(session)

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent(PayloadWaitlistYes))
	require.NoError(t, err)

	assert.Equal(t, TemplateWaitlisted, reply.TemplateKey)
	assert.Equal(t, "1", reply.TemplateArgs["position"])
	assert.Equal(t, domain.StateWaitlisted, f.sessions.stored(1, 42).State)

	require.Len(t, f.waitlist.entries, 1)
	entry := f.waitlist.entries[0]
	assert.Equal(t, int64(3), entry.ServiceID)
	assert.True(t, entry.DesiredDate.Equal(monday))
}

func TestHandleEvent_WaitlistDecline(t *testing.T) {
	f := newFixture()
	session := collectingSession()
	session.State = domain.StateWaitlistOffered
	f.seedSession(session)

	reply, err := f.engine.HandleEvent(context.Background(), buttonEvent(PayloadWaitlistNo))
	require.NoError(t, err)

	assert.Equal(t, TemplateWaitlistDeclined, reply.TemplateKey)
	assert.Equal(t, domain.StateAbandoned, f.sessions.stored(1, 42).State)
	assert.Empty(t, f.waitlist.entries)
}

func TestHandleEvent_ExpiredSessionReplacedKeepingLanguage(t *testing.T) {
	f := newFixture()
	session := collectingSession()
	session.State = domain.StateOffering
	session.PendingOffers = sampleOffers()
	session.Language = "en"
	session.LastActivityAt = testNow.Add(-2 * time.Hour)
	session.CreatedAt = testNow.Add(-3 * time.Hour)
	f.seedSession(session)

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("привет", nil))
	require.NoError(t, err)

	// Истёкшая сессия замещается новой: контекст потерян, язык сохранен
	assert.Equal(t, TemplateGreeting, reply.TemplateKey)
	assert.Equal(t, "en", reply.Language)

	stored := f.sessions.stored(1, 42)
	assert.Equal(t, domain.StateIdle, stored.State)
	assert.Empty(t, stored.PendingOffers)
	assert.Contains(t, f.metrics.transitions, [2]string{"offering", "abandoned"})
}

func TestHandleEvent_LanguageSwitchByConfidence(t *testing.T) {
	f := newFixture()

	t.Run("below threshold keeps default", func(t *testing.T) {
		event := textEvent("hello", nil)
		event.DetectedLanguage = "en"
		event.LanguageConfidence = 0.5

		reply, err := f.engine.HandleEvent(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, "ru", reply.Language)
	})

	t.Run("at threshold switches", func(t *testing.T) {
		event := textEvent("hello again", nil)
		event.DetectedLanguage = "en"
		event.LanguageConfidence = 0.8

		reply, err := f.engine.HandleEvent(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, "en", reply.Language)
	})
}

func TestHandleEvent_ClassifierDegradationFallsBackToGreeting(t *testing.T) {
	// Классификатор недоступен: текст обрабатывается без подсказок
	f := newFixture()

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("хочу записаться", nil))
	require.NoError(t, err)
	assert.Equal(t, TemplateGreeting, reply.TemplateKey)
}

func TestHandleEvent_TerminalSessionReplaced(t *testing.T) {
	f := newFixture()
	session := collectingSession()
	session.State = domain.StateDone
	f.seedSession(session)

	reply, err := f.engine.HandleEvent(context.Background(), textEvent("привет", nil))
	require.NoError(t, err)

	assert.Equal(t, TemplateGreeting, reply.TemplateKey)
	assert.Equal(t, domain.StateIdle, f.sessions.stored(1, 42).State)
}

func TestHandleEvent_Validation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		event *InboundEvent
	}{
		{name: "nil event", event: nil},
		{name: "zero business", event: &InboundEvent{CustomerID: 42, Kind: KindText}},
		{name: "zero customer", event: &InboundEvent{BusinessID: 1, Kind: KindText}},
		{name: "unknown kind", event: &InboundEvent{BusinessID: 1, CustomerID: 42, Kind: "VOICE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.HandleEvent(context.Background(), tt.event)
			assert.ErrorIs(t, err, ErrInvalidEvent)
		})
	}
}

func TestRunExpirySweep(t *testing.T) {
	f := newFixture()

	stale := collectingSession()
	stale.State = domain.StateOffering
	stale.LastActivityAt = testNow.Add(-2 * time.Hour)
	f.seedSession(stale)

	fresh := collectingSession()
	fresh.CustomerID = 43
	fresh.LastActivityAt = testNow.Add(-5 * time.Minute)
	f.seedSession(fresh)

	count, err := f.engine.RunExpirySweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Equal(t, domain.StateAbandoned, f.sessions.stored(1, 42).State)
	assert.Equal(t, domain.StateCollecting, f.sessions.stored(1, 43).State)
}
