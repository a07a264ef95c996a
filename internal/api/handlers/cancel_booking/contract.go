package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	cancelBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/cancel_booking"
)

// BookingAccess проверка, что пользователь автор бронирования или модератор
type BookingAccess interface {
	CheckAccess(ctx context.Context, id int64, userID int64) error
}

type CancelBookingUseCase interface {
	Execute(ctx context.Context, req *cancelBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
