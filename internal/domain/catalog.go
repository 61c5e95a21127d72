package domain

// Business represents a business account with its working hours
// Расписание принадлежит административному контуру и здесь только читается
type Business struct {
	ID       int64
	Name     string
	Timezone string
	Schedule WorkingSchedule
}

// Staff represents a staff member of a business
type Staff struct {
	ID         int64
	BusinessID int64
	Name       string
	Active     bool
	Schedule   WorkingSchedule
}

// ServiceSpec represents a bookable service
// Длительность и буфер копируются в бронирование при создании, поэтому
// изменение услуги не влияет на уже существующие записи
type ServiceSpec struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	BufferMinutes   int
	Active          bool
}

// TotalMinutes возвращает длительность услуги вместе с буфером после неё
func (s *ServiceSpec) TotalMinutes() int {
	return s.DurationMinutes + s.BufferMinutes
}
