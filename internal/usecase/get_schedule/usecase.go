package get_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

// UseCase use case для получения расписания подтверждённых бронирований
type UseCase struct {
	bookingRepo BookingRepository
	roomRepo    RoomRepository
	policy      PolicyProvider
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	policy PolicyProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		policy:      policy,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute строит расписание на локальный день зрителя: строки по часам, в которые
// попадает рабочее время, в каждой строке комнаты с бронированиями, начинающимися в этот час
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Timeline, error) {
	if req.Date.IsZero() {
		uc.logger.Warn("GetSchedule: date is required")
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	cfg := uc.policy.Config()
	loc := req.Location
	if loc == nil {
		loc = cfg.Loc()
	}

	y, m, d := req.Date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	uc.logger.Info("GetSchedule: date=%s, tz=%s", dayStart.Format(domain.DateFormat), loc.String())

	var (
		rooms    []*domain.Room
		bookings []*domain.Booking
	)

	// 1. Комнаты и бронирования читаются из одного снимка
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 1.1. Комнаты: одна запрошенная или все активные
		var err error
		rooms, err = uc.rooms(txCtx, req.RoomID)
		if err != nil {
			return err
		}

		// 1.2. Подтверждённые бронирования, начинающиеся в этот локальный день
		bookings, err = uc.bookingRepo.GetByFilter(txCtx, domain.BookingsFilter{
			RoomID:      req.RoomID,
			Statuses:    domain.ApprovedStatuses,
			StartFrom:   &dayStart,
			StartBefore: &dayEnd,
			Order:       domain.OrderByStartAsc,
		})
		if err != nil {
			uc.logger.Error("GetSchedule: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2. Бронирования вне рабочих часов не показываются
	visible := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if err := uc.policy.ValidateTimeOfDay(b.Interval()); err != nil {
			uc.logger.Warn("GetSchedule: booking id=%d skipped: %v", b.ID, err)
			continue
		}
		visible = append(visible, b)
	}

	// 3. Строки расписания: часы дня зрителя, пересекающие рабочее окно
	timeline := buildTimeline(dayStart, loc, cfg.WorkingHoursIn(dayStart), rooms, visible)

	uc.logger.Info("GetSchedule: %d approved bookings in %d rooms on %s",
		len(visible), len(rooms), dayStart.Format(domain.DateFormat))

	return &timeline, nil
}

func (uc *UseCase) rooms(ctx context.Context, roomID *int64) ([]*domain.Room, error) {
	if roomID == nil {
		rooms, err := uc.roomRepo.List(ctx, false)
		if err != nil {
			uc.logger.Error("GetSchedule: failed to list rooms: %v", err)
			return nil, fmt.Errorf("%w: failed to list rooms: %v", ErrInternal, err)
		}
		return rooms, nil
	}

	room, err := uc.roomRepo.GetByID(ctx, *roomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("GetSchedule: room id=%d not found", *roomID)
			return nil, fmt.Errorf("%w: room id=%d", domain.ErrNotFound, *roomID)
		}
		uc.logger.Error("GetSchedule: failed to get room id=%d: %v", *roomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}
	return []*domain.Room{room}, nil
}
