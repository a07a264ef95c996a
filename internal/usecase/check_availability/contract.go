package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// ConflictFinder поиск пересекающихся бронирований
type ConflictFinder interface {
	FindOverlaps(ctx context.Context, roomID int64, interval domain.Interval, statuses []domain.BookingStatus, excludeID *int64) ([]*domain.Booking, error)
}

// TimeWindowPolicy правила временных окон
type TimeWindowPolicy interface {
	Validate(interval domain.Interval, now time.Time) error
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
