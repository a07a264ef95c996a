package conflicts

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// BookingQuerier источник бронирований комнаты по статусам
// Реализуется репозиториями PostgreSQL и памяти; внутри транзакции PostgreSQL
// блокирует найденные строки
type BookingQuerier interface {
	GetByRoomAndStatus(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error)
}
