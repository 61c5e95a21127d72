package dialogue

import "errors"

var (
	// ErrInvalidEvent возвращается при некорректном входящем событии
	ErrInvalidEvent = errors.New("dialogue: invalid inbound event")

	// ErrInternal возвращается при внутренних ошибках движка
	ErrInternal = errors.New("dialogue: internal error")
)
