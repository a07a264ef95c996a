package approve_booking

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	approveBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/approve_booking"
)

type ApproveBookingUseCase interface {
	Execute(ctx context.Context, req *approveBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
