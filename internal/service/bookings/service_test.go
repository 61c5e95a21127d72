package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ChatBookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings  map[int64]*domain.Booking
	cancelled map[int64]string
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	f := &fakeBookingRepo{
		bookings:  make(map[int64]*domain.Booking),
		cancelled: make(map[int64]string),
	}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, businessID, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.BusinessID != businessID || b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	f.cancelled[id] = reason
	return nil
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          10,
		BusinessID:  1,
		StaffID:     7,
		CustomerID:  42,
		BookingDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		StartTime:   "14:00",
		EndTime:     "15:00",
		Status:      domain.StatusConfirmed,
		BookingCode: "BK-A1B2C3",
	}
}

func TestGetByID(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking())
	service := NewService(repo, nopLogger{})

	t.Run("owner sees own booking", func(t *testing.T) {
		resp, err := service.GetByID(context.Background(), 10, 42)
		require.NoError(t, err)
		assert.Equal(t, "BK-A1B2C3", resp.BookingCode)
		assert.Equal(t, "2026-01-05", resp.BookingDate)
		assert.Equal(t, "14:00", resp.StartTime)
	})

	t.Run("foreign booking denied", func(t *testing.T) {
		_, err := service.GetByID(context.Background(), 10, 99)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := service.GetByID(context.Background(), 404, 42)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels confirmed booking", func(t *testing.T) {
		repo := newFakeBookingRepo(confirmedBooking())
		service := NewService(repo, nopLogger{})

		err := service.Cancel(context.Background(), 10, &models.CancelBookingRequest{
			CustomerID:         42,
			CancellationReason: "не смогу прийти",
		})
		require.NoError(t, err)
		assert.Equal(t, "не смогу прийти", repo.cancelled[10])
		assert.Equal(t, domain.StatusCancelled, repo.bookings[10].Status)
	})

	t.Run("foreign booking denied", func(t *testing.T) {
		repo := newFakeBookingRepo(confirmedBooking())
		service := NewService(repo, nopLogger{})

		err := service.Cancel(context.Background(), 10, &models.CancelBookingRequest{CustomerID: 99})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, repo.cancelled)
	})

	t.Run("already cancelled", func(t *testing.T) {
		booking := confirmedBooking()
		booking.Status = domain.StatusCancelled
		repo := newFakeBookingRepo(booking)
		service := NewService(repo, nopLogger{})

		err := service.Cancel(context.Background(), 10, &models.CancelBookingRequest{CustomerID: 42})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		booking := confirmedBooking()
		booking.Status = domain.StatusCompleted
		repo := newFakeBookingRepo(booking)
		service := NewService(repo, nopLogger{})

		err := service.Cancel(context.Background(), 10, &models.CancelBookingRequest{CustomerID: 42})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestGetCustomerBookings(t *testing.T) {
	other := confirmedBooking()
	other.ID = 11
	other.Status = domain.StatusCancelled

	repo := newFakeBookingRepo(confirmedBooking(), other)
	service := NewService(repo, nopLogger{})

	t.Run("all statuses", func(t *testing.T) {
		resp, err := service.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
			BusinessID: 1,
			CustomerID: 42,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("filtered by status", func(t *testing.T) {
		status := "cancelled"
		resp, err := service.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
			BusinessID: 1,
			CustomerID: 42,
			Status:     &status,
		})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, int64(11), resp.Bookings[0].ID)
	})

	t.Run("invalid status", func(t *testing.T) {
		status := "pending"
		_, err := service.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
			BusinessID: 1,
			CustomerID: 42,
			Status:     &status,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid ids", func(t *testing.T) {
		_, err := service.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
