package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/pkg/types"
)

func openDay(start, end types.TimeString, breaks ...domain.TimeRange) domain.DaySchedule {
	return domain.DaySchedule{
		IsOpen: true,
		Start:  start,
		End:    end,
		Breaks: breaks,
	}
}

func TestIsWithinWorkingHours(t *testing.T) {
	day := openDay("09:00", "18:00", domain.TimeRange{Start: "13:00", End: "14:00"})

	tests := []struct {
		name string
		t    types.TimeString
		want bool
	}{
		{name: "inside working hours", t: "10:00", want: true},
		{name: "exactly at open", t: "09:00", want: true},
		{name: "exactly at close", t: "18:00", want: false},
		{name: "before open", t: "08:59", want: false},
		{name: "inside break", t: "13:30", want: false},
		{name: "exactly at break start", t: "13:00", want: false},
		{name: "exactly at break end", t: "14:00", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinWorkingHours(day, tt.t))
		})
	}

	t.Run("closed day", func(t *testing.T) {
		assert.False(t, IsWithinWorkingHours(domain.DaySchedule{IsOpen: false}, "10:00"))
	})
}

func TestIntervalFits(t *testing.T) {
	day := openDay("09:00", "18:00", domain.TimeRange{Start: "13:00", End: "14:00"})

	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		want     bool
	}{
		{name: "fits in the morning", start: "10:00", duration: 60, want: true},
		{name: "ends exactly at close", start: "17:00", duration: 60, want: true},
		{name: "one minute past close", start: "17:01", duration: 60, want: false},
		{name: "ends exactly at break start", start: "12:00", duration: 60, want: true},
		{name: "crosses break partially", start: "12:30", duration: 60, want: false},
		{name: "starts inside break", start: "13:30", duration: 15, want: false},
		{name: "starts exactly at break end", start: "14:00", duration: 60, want: true},
		{name: "starts before open", start: "08:30", duration: 60, want: false},
		{name: "zero duration", start: "10:00", duration: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntervalFits(day, tt.start, tt.duration))
		})
	}

	t.Run("closed day", func(t *testing.T) {
		assert.False(t, IntervalFits(domain.DaySchedule{IsOpen: false}, "10:00", 30))
	})

	t.Run("interval up to midnight boundary", func(t *testing.T) {
		lateDay := openDay("20:00", "24:00")
		assert.True(t, IntervalFits(lateDay, "23:00", 60))
		assert.False(t, IntervalFits(lateDay, "23:30", 60))
	})
}

func TestIntersect(t *testing.T) {
	business := domain.WorkingSchedule{}
	staff := domain.WorkingSchedule{}

	// Понедельник: бизнес 09-18 с обедом, мастер 10-20 со своим перерывом
	business.SetWeekday(time.Monday, openDay("09:00", "18:00", domain.TimeRange{Start: "13:00", End: "14:00"}))
	staff.SetWeekday(time.Monday, openDay("10:00", "20:00", domain.TimeRange{Start: "16:00", End: "16:30"}))

	// Вторник: бизнес открыт, мастер выходной
	business.SetWeekday(time.Tuesday, openDay("09:00", "18:00"))

	// Среда: окна не пересекаются
	business.SetWeekday(time.Wednesday, openDay("09:00", "12:00"))
	staff.SetWeekday(time.Wednesday, openDay("12:00", "18:00"))

	effective := Intersect(business, staff)

	t.Run("overlapping day keeps both breaks", func(t *testing.T) {
		day := effective.ForWeekday(time.Monday)
		assert.True(t, day.IsOpen)
		assert.Equal(t, types.TimeString("10:00"), day.Start)
		assert.Equal(t, types.TimeString("18:00"), day.End)
		assert.Len(t, day.Breaks, 2)

		// Интервал через перерыв мастера отклоняется
		assert.False(t, IntervalFits(day, "15:45", 30))
		// Интервал через обед бизнеса отклоняется
		assert.False(t, IntervalFits(day, "12:45", 30))
	})

	t.Run("staff day off closes the day", func(t *testing.T) {
		assert.False(t, effective.ForWeekday(time.Tuesday).IsOpen)
	})

	t.Run("disjoint windows close the day", func(t *testing.T) {
		assert.False(t, effective.ForWeekday(time.Wednesday).IsOpen)
	})

	t.Run("both closed", func(t *testing.T) {
		assert.False(t, effective.ForWeekday(time.Sunday).IsOpen)
	})
}

func TestIntersect_ClipsBreaks(t *testing.T) {
	business := domain.WorkingSchedule{}
	staff := domain.WorkingSchedule{}

	// Перерыв мастера начинается до открытия бизнеса: обрезается по границе
	business.SetWeekday(time.Friday, openDay("10:00", "18:00"))
	staff.SetWeekday(time.Friday, openDay("08:00", "18:00", domain.TimeRange{Start: "09:30", End: "10:30"}))

	day := Intersect(business, staff).ForWeekday(time.Friday)
	assert.True(t, day.IsOpen)
	assert.Len(t, day.Breaks, 1)
	assert.Equal(t, types.TimeString("10:00"), day.Breaks[0].Start)
	assert.Equal(t, types.TimeString("10:30"), day.Breaks[0].End)

	// Перерыв целиком вне эффективного окна исчезает
	staff.SetWeekday(time.Friday, openDay("08:00", "18:00", domain.TimeRange{Start: "08:30", End: "09:30"}))
	day = Intersect(business, staff).ForWeekday(time.Friday)
	assert.Empty(t, day.Breaks)
}
