package history

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Log журнал изменений бронирований
// Пишут в него только сценарии жизненного цикла, передавая контекст своей транзакции
type Log struct {
	repo Repository
}

// NewLog создает журнал поверх репозитория
func NewLog(repo Repository) *Log {
	return &Log{repo: repo}
}

// Append добавляет запись; actorID == nil для системных действий
func (l *Log) Append(ctx context.Context, bookingID int64, actorID *int64, action domain.HistoryAction, details map[string]any) error {
	switch action {
	case domain.ActionCreated, domain.ActionUpdated, domain.ActionApproved, domain.ActionRejected, domain.ActionCancelled:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	_, err := l.repo.Append(ctx, &domain.HistoryEntry{
		BookingID: bookingID,
		ActorID:   actorID,
		Action:    action,
		Details:   details,
	})
	if err != nil {
		return fmt.Errorf("%w: append %s for booking %d: %w", ErrInternal, action, bookingID, err)
	}
	return nil
}

// Query возвращает записи бронирования от новых к старым
// Каждый вызов перечитывает журнал; limit <= 0 означает все записи
func (l *Log) Query(ctx context.Context, bookingID int64, limit int) ([]*domain.HistoryEntry, error) {
	entries, err := l.repo.GetByBookingID(ctx, bookingID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query booking %d: %w", ErrInternal, bookingID, err)
	}
	return entries, nil
}
