package update_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
)

const action = "update"

// UseCase use case для изменения ожидающей заявки
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	detector     ConflictDetector
	policy       TimeWindowPolicy
	history      HistoryLog
	publisher    EventPublisher
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	detector ConflictDetector,
	policy TimeWindowPolicy,
	history HistoryLog,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		detector:     detector,
		policy:       policy,
		history:      history,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute изменяет заявку, пока она в статусе pending
// Менять заявку может только её автор. При смене комнаты или времени повторяются
// проверки временного окна, комнаты и пересечений (без учёта самой заявки)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("UpdateBooking: booking=%d, requester=%d", req.BookingID, req.RequesterID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
		return nil, err
	}

	now := uc.timeProvider.Now()
	var (
		result  *domain.Booking
		changes map[string]any
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return mapBookingError(err, req.BookingID)
		}

		// 1. Блокируем старую и новую комнату в порядке возрастания id
		targetRoomID := current.RoomID
		if req.RoomID != nil {
			targetRoomID = *req.RoomID
		}
		rooms, err := uc.lockRooms(txCtx, current.RoomID, targetRoomID)
		if err != nil {
			return err
		}

		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			return mapBookingError(err, req.BookingID)
		}

		// 2. Права и статус
		if booking.RequesterID != req.RequesterID {
			return fmt.Errorf("%w: booking id=%d belongs to another user", domain.ErrAccessDenied, booking.ID)
		}
		if !booking.CanBeUpdated() {
			return fmt.Errorf("%w: cannot update %s booking", domain.ErrInvalidTransition, booking.Status)
		}

		next, diff := applyChanges(booking, req)
		if len(diff) == 0 {
			result = booking
			return nil
		}

		// 3. Повторные проверки затронутых правил
		if changed(diff, "startTime", "endTime") {
			if err := uc.policy.Validate(next.Interval(), now); err != nil {
				return err
			}
		}

		room := rooms[next.RoomID]
		if changed(diff, "roomId") && !room.IsActive {
			return fmt.Errorf("%w: room id=%d", domain.ErrRoomInactive, room.ID)
		}
		if changed(diff, "roomId", "participantsCount") && !room.Fits(next.ParticipantsCount) {
			return fmt.Errorf("%w: %d participants, capacity %d",
				domain.ErrCapacityExceeded, next.ParticipantsCount, room.Capacity)
		}

		if changed(diff, "roomId", "startTime", "endTime") {
			if err := uc.detector.Check(txCtx, next.RoomID, next.Interval(), domain.LiveStatuses, &next.ID); err != nil {
				if errors.Is(err, domain.ErrConflictDetected) {
					return err
				}
				return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
			}
		}

		// 4. Запись и журнал
		if err := uc.bookingRepo.UpdateDetails(txCtx, next); err != nil {
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}
		if err := uc.history.Append(txCtx, next.ID, &req.RequesterID, domain.ActionUpdated, diff); err != nil {
			return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, next.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %w", ErrInternal, err)
		}

		result = updated
		changes = diff
		return nil
	})

	if err != nil {
		uc.observeFailure(err)
		return nil, err
	}

	if len(changes) == 0 {
		uc.logger.Info("UpdateBooking: booking id=%d has no changes", result.ID)
		return result, nil
	}

	uc.logger.Info("UpdateBooking: booking id=%d updated, %d fields changed", result.ID, len(changes))
	uc.metrics.ObserveTransition(action, "success")

	event := eventbus.NewBookingEvent(domain.ActionUpdated, result, &req.RequesterID, now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("UpdateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return result, nil
}

// lockRooms блокирует комнаты строго по возрастанию id
func (uc *UseCase) lockRooms(ctx context.Context, ids ...int64) (map[int64]*domain.Room, error) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rooms := make(map[int64]*domain.Room, len(ids))
	for _, id := range ids {
		if _, ok := rooms[id]; ok {
			continue
		}
		room, err := uc.roomRepo.LockForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, roomRepo.ErrRoomNotFound) {
				return nil, fmt.Errorf("%w: room id=%d", domain.ErrNotFound, id)
			}
			return nil, fmt.Errorf("%w: failed to lock room: %w", ErrInternal, err)
		}
		rooms[id] = room
	}
	return rooms, nil
}

func mapBookingError(err error, id int64) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
}

func (uc *UseCase) observeFailure(err error) {
	switch {
	case errors.Is(err, domain.ErrConflictDetected):
		uc.logger.Warn("UpdateBooking: %v", err)
		uc.metrics.ObserveConflict(action)
		uc.metrics.ObserveTransition(action, "conflict")
	case domain.IsBusinessError(err):
		uc.logger.Warn("UpdateBooking: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
	default:
		uc.logger.Error("UpdateBooking: %v", err)
		uc.metrics.ObserveTransition(action, "error")
	}
}
