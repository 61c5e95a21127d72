package nlu

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("nlu client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("nlu client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что классификатор недоступен и диалог продолжается без подсказок
	ErrServiceDegraded = errors.New("nlu unavailable: graceful degradation applied")
)
