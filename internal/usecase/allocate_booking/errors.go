package allocate_booking

import "errors"

// Каждая проверка валидации дает собственную ошибку: обработчики и диалоговый
// движок сопоставляют их с локализуемыми ключами сообщений
var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("allocate_booking: invalid input data")

	// ErrStartInPast возвращается, когда запрошенное время уже прошло
	ErrStartInPast = errors.New("allocate_booking: requested start is in the past")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("allocate_booking: business not found")

	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = errors.New("allocate_booking: staff not found or inactive")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("allocate_booking: service not found or inactive")

	// ErrOutsideWorkingHours возвращается, когда интервал услуги не помещается
	// в эффективное расписание (часы бизнеса ∩ часы мастера, включая перерывы)
	ErrOutsideWorkingHours = errors.New("allocate_booking: interval does not fit working hours")

	// ErrSlotTaken возвращается, когда интервал пересекается с подтвержденным
	// бронированием. Терминальный бизнес-исход попытки: не повторяется
	ErrSlotTaken = errors.New("allocate_booking: slot is already taken")

	// ErrInternal возвращается при инфраструктурных ошибках
	ErrInternal = errors.New("allocate_booking: internal error")
)
