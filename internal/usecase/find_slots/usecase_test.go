package find_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ChatBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByStaffWithFilter(_ context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.BusinessID != filter.BusinessID {
			continue
		}
		if filter.StaffID != nil && b.StaffID != *filter.StaffID {
			continue
		}
		if filter.Date != nil && !sameDay(b.BookingDate, *filter.Date) {
			continue
		}
		if filter.OnlyBlocking && !b.Blocks() {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type fakeCatalogRepo struct {
	business *domain.Business
	staff    map[int64]*domain.Staff
	services map[int64]*domain.ServiceSpec
}

func (f *fakeCatalogRepo) GetBusiness(_ context.Context, businessID int64) (*domain.Business, error) {
	if f.business == nil || f.business.ID != businessID {
		return nil, catalogRepo.ErrBusinessNotFound
	}
	return f.business, nil
}

func (f *fakeCatalogRepo) GetStaff(_ context.Context, _, staffID int64) (*domain.Staff, error) {
	staff, ok := f.staff[staffID]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return staff, nil
}

func (f *fakeCatalogRepo) ListActiveStaff(_ context.Context, _ int64) ([]*domain.Staff, error) {
	result := make([]*domain.Staff, 0)
	// Детерминированный порядок по id, как в реальном репозитории
	for id := int64(1); id <= int64(len(f.staff))+10; id++ {
		if staff, ok := f.staff[id]; ok && staff.Active {
			result = append(result, staff)
		}
	}
	return result, nil
}

func (f *fakeCatalogRepo) GetService(_ context.Context, _, serviceID int64) (*domain.ServiceSpec, error) {
	service, ok := f.services[serviceID]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return service, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func weekSchedule(days map[time.Weekday]domain.DaySchedule) domain.WorkingSchedule {
	var s domain.WorkingSchedule
	for wd, day := range days {
		s.SetWeekday(wd, day)
	}
	return s
}

func fullWeek(start, end types.TimeString) domain.WorkingSchedule {
	var s domain.WorkingSchedule
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		s.SetWeekday(wd, domain.DaySchedule{IsOpen: true, Start: start, End: end})
	}
	return s
}

// 2026-01-05 - понедельник, 2026-01-04 - воскресенье
var (
	monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
)

func newTestUseCase(bookingRepo *fakeBookingRepo, catalog *fakeCatalogRepo, now time.Time) *UseCase {
	uc := NewUseCase(bookingRepo, catalog, 15, 30, nopLogger{})
	return uc.WithTimeProvider(fixedTime{now: now})
}

func TestExecute_ClosedDayYieldsNoOffers(t *testing.T) {
	// Бизнес работает только по будням; запрос на воскресенье пуст,
	// на понедельник - нет
	weekdays := weekSchedule(map[time.Weekday]domain.DaySchedule{
		time.Monday:    {IsOpen: true, Start: "09:00", End: "12:00"},
		time.Tuesday:   {IsOpen: true, Start: "09:00", End: "12:00"},
		time.Wednesday: {IsOpen: true, Start: "09:00", End: "12:00"},
		time.Thursday:  {IsOpen: true, Start: "09:00", End: "12:00"},
		time.Friday:    {IsOpen: true, Start: "09:00", End: "12:00"},
	})

	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: weekdays},
		staff: map[int64]*domain.Staff{
			7: {ID: 7, BusinessID: 1, Active: true, Schedule: fullWeek("08:00", "20:00")},
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, catalog, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		FromDate:   sunday,
		ToDate:     sunday,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Offers, "closed day must produce an empty offer list, not an error")

	resp, err = uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		FromDate:   monday,
		ToDate:     monday,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Offers)
}

func TestExecute_SkipsBookedIntervals(t *testing.T) {
	staffID := int64(7)
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "11:00")},
		staff: map[int64]*domain.Staff{
			staffID: {ID: staffID, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "11:00")},
		},
	}
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID: 100, BusinessID: 1, StaffID: staffID,
				BookingDate: monday, StartTime: "09:30", EndTime: "10:00",
				Status: domain.StatusConfirmed,
			},
		},
	}
	uc := newTestUseCase(bookingRepo, catalog, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StaffID:    &staffID,
		FromDate:   monday,
		ToDate:     monday,
		MaxResults: 10,
	})
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(resp.Offers))
	for _, offer := range resp.Offers {
		starts = append(starts, offer.StartTime)
	}
	// 30-минутная услуга с шагом 15: кандидаты, пересекающие [09:30, 10:00), отпадают
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "10:15", "10:30"}, starts)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	staffID := int64(7)
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "10:00")},
		staff: map[int64]*domain.Staff{
			staffID: {ID: staffID, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "10:00")},
		},
	}
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID: 100, BusinessID: 1, StaffID: staffID,
				BookingDate: monday, StartTime: "09:00", EndTime: "09:30",
				Status: domain.StatusCancelled,
			},
		},
	}
	uc := newTestUseCase(bookingRepo, catalog, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StaffID:    &staffID,
		FromDate:   monday,
		ToDate:     monday,
	})
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(resp.Offers))
	for _, offer := range resp.Offers {
		starts = append(starts, offer.StartTime)
	}
	assert.Contains(t, starts, types.TimeString("09:00"), "cancelled booking must release its interval")
}

func TestExecute_AnyStaffMergeOrdering(t *testing.T) {
	// Два мастера с одинаковым расписанием: при равном времени начала
	// предложения идут в порядке id мастера
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "10:00")},
		staff: map[int64]*domain.Staff{
			2: {ID: 2, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "10:00")},
			5: {ID: 5, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "10:00")},
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, catalog, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		FromDate:   monday,
		ToDate:     monday,
		MaxResults: 4,
	})
	require.NoError(t, err)
	require.Len(t, resp.Offers, 4)

	assert.Equal(t, types.TimeString("09:00"), resp.Offers[0].StartTime)
	assert.Equal(t, int64(2), resp.Offers[0].StaffID)
	assert.Equal(t, types.TimeString("09:00"), resp.Offers[1].StartTime)
	assert.Equal(t, int64(5), resp.Offers[1].StaffID)
	assert.Equal(t, types.TimeString("09:15"), resp.Offers[2].StartTime)
	assert.Equal(t, int64(2), resp.Offers[2].StaffID)
}

func TestExecute_MaxResultsCapsOffers(t *testing.T) {
	staffID := int64(7)
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "18:00")},
		staff: map[int64]*domain.Staff{
			staffID: {ID: staffID, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "18:00")},
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, catalog, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StaffID:    &staffID,
		FromDate:   monday,
		ToDate:     monday,
		MaxResults: 3,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Offers, 3)
}

func TestExecute_RejectsPastCandidatesToday(t *testing.T) {
	staffID := int64(7)
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "12:00")},
		staff: map[int64]*domain.Staff{
			staffID: {ID: staffID, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "12:00")},
		},
	}
	// Сейчас понедельник 10:20: утренние кандидаты уже в прошлом
	now := time.Date(2026, 1, 5, 10, 20, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, catalog, now)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StaffID:    &staffID,
		FromDate:   monday,
		ToDate:     monday,
		MaxResults: 10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Offers)
	assert.Equal(t, types.TimeString("10:30"), resp.Offers[0].StartTime)
}

func TestExecute_PastDateSkippedEntirely(t *testing.T) {
	staffID := int64(7)
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "12:00")},
		staff: map[int64]*domain.Staff{
			staffID: {ID: staffID, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "12:00")},
		},
	}
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, catalog, now)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StaffID:    &staffID,
		FromDate:   monday,
		ToDate:     monday,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Offers)
}

func TestExecute_ServiceDurationWithBuffer(t *testing.T) {
	staffID := int64(7)
	serviceID := int64(3)
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "10:00")},
		staff: map[int64]*domain.Staff{
			staffID: {ID: staffID, BusinessID: 1, Active: true, Schedule: fullWeek("09:00", "10:00")},
		},
		services: map[int64]*domain.ServiceSpec{
			serviceID: {ID: serviceID, BusinessID: 1, DurationMinutes: 45, BufferMinutes: 15, Active: true},
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, catalog, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		StaffID:    &staffID,
		ServiceID:  &serviceID,
		FromDate:   monday,
		ToDate:     monday,
	})
	require.NoError(t, err)

	// 45+15 минут помещаются только с начала часового окна
	require.Len(t, resp.Offers, 1)
	assert.Equal(t, types.TimeString("09:00"), resp.Offers[0].StartTime)
	assert.Equal(t, 60, resp.Offers[0].DurationMinutes)
}

func TestExecute_NotFoundErrors(t *testing.T) {
	catalog := &fakeCatalogRepo{
		business: &domain.Business{ID: 1, Schedule: fullWeek("09:00", "18:00")},
		staff: map[int64]*domain.Staff{
			7: {ID: 7, BusinessID: 1, Active: false, Schedule: fullWeek("09:00", "18:00")},
		},
		services: map[int64]*domain.ServiceSpec{
			3: {ID: 3, BusinessID: 1, DurationMinutes: 30, Active: false},
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, catalog, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))

	t.Run("unknown business", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BusinessID: 2, FromDate: monday, ToDate: monday})
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("unknown staff", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StaffID: ptr.Ptr(int64(99)), FromDate: monday, ToDate: monday})
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("inactive staff", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, StaffID: ptr.Ptr(int64(7)), FromDate: monday, ToDate: monday})
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(99)), FromDate: monday, ToDate: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive service", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(3)), FromDate: monday, ToDate: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeCatalogRepo{}, time.Now())

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero business", req: &Request{FromDate: monday, ToDate: monday}},
		{name: "missing dates", req: &Request{BusinessID: 1}},
		{name: "inverted range", req: &Request{BusinessID: 1, FromDate: monday, ToDate: sunday}},
		{name: "window too wide", req: &Request{BusinessID: 1, FromDate: monday, ToDate: monday.AddDate(0, 0, 90)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
