package eventbus

import "errors"

var (
	// ErrConnect ошибка подключения к брокеру
	ErrConnect = errors.New("eventbus: failed to connect to broker")

	// ErrPublish ошибка публикации события
	ErrPublish = errors.New("eventbus: failed to publish event")
)
