package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	getSchedule "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_schedule"
)

type GetScheduleUseCase interface {
	Execute(ctx context.Context, req *getSchedule.Request) (*domain.Timeline, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
