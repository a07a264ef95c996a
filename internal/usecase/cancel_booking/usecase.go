package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
)

const action = "cancel"

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	policy       CancellationPolicy
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
	policy CancellationPolicy,
	history HistoryLog,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		policy:       policy,
		history:      history,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет ожидающее или подтверждённое бронирование
// Отмена окончательна: повторная отмена возвращает domain.ErrInvalidTransition
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d", req.BookingID, req.ActorID)

	if req.BookingID <= 0 || req.ActorID <= 0 {
		err := fmt.Errorf("%w: bookingID and actorID must be positive", ErrInvalidInput)
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
		return nil, err
	}

	now := uc.timeProvider.Now()
	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return mapBookingError(err, req.BookingID)
		}
		if _, err := uc.roomRepo.LockForUpdate(txCtx, current.RoomID); err != nil {
			return fmt.Errorf("%w: failed to lock room: %w", ErrInternal, err)
		}

		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			return mapBookingError(err, req.BookingID)
		}

		if err := uc.policy.CanCancel(booking, now); err != nil {
			return err
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusCancelled); err != nil {
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		details := map[string]any{"previousStatus": string(booking.Status)}
		if err := uc.history.Append(txCtx, booking.ID, &req.ActorID, domain.ActionCancelled, details); err != nil {
			return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		if domain.IsBusinessError(err) {
			uc.logger.Warn("CancelBooking: %v", err)
			uc.metrics.ObserveTransition(action, "invalid")
		} else {
			uc.logger.Error("CancelBooking: %v", err)
			uc.metrics.ObserveTransition(action, "error")
		}
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled by user=%d", result.ID, req.ActorID)
	uc.metrics.ObserveTransition(action, "success")

	event := eventbus.NewBookingEvent(domain.ActionCancelled, result, &req.ActorID, now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CancelBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return result, nil
}

func mapBookingError(err error, id int64) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
}
