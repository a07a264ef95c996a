package history

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Repository хранилище журнала
type Repository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error)
	GetByBookingID(ctx context.Context, bookingID int64, limit int) ([]*domain.HistoryEntry, error)
}
