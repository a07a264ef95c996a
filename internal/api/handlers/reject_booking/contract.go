package reject_booking

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	rejectBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/reject_booking"
)

type RejectBookingUseCase interface {
	Execute(ctx context.Context, req *rejectBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
