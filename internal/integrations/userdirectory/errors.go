package userdirectory

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь неизвестен справочнику
	ErrUserNotFound = errors.New("userdirectory client: user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userdirectory client: invalid response")

	// ErrServiceDegraded возвращается, когда справочник недоступен
	// Роль пользователя определить нельзя, привилегированные действия запрещаются
	ErrServiceDegraded = errors.New("userdirectory unavailable: graceful degradation applied")
)
