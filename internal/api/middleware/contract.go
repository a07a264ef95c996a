package middleware

import "context"

// ModeratorChecker справочник ролей пользователей
type ModeratorChecker interface {
	IsModerator(ctx context.Context, userID int64) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
