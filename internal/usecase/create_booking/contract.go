package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	LockForUpdate(ctx context.Context, id int64) (*domain.Room, error)
}

// ConflictDetector поиск пересекающихся бронирований
type ConflictDetector interface {
	Check(ctx context.Context, roomID int64, interval domain.Interval, statuses []domain.BookingStatus, excludeID *int64) error
}

// TimeWindowPolicy правила временных окон
type TimeWindowPolicy interface {
	Validate(interval domain.Interval, now time.Time) error
}

// HistoryLog журнал изменений
type HistoryLog interface {
	Append(ctx context.Context, bookingID int64, actorID *int64, action domain.HistoryAction, details map[string]any) error
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.BookingEvent) error
}

// Metrics бизнес-метрики переходов
type Metrics interface {
	ObserveTransition(action, outcome string)
	ObserveConflict(operation string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
