package history

import "errors"

var (
	// ErrInvalidAction возвращается для неизвестного действия
	ErrInvalidAction = errors.New("history.log: invalid action")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("history.log: internal error")
)
