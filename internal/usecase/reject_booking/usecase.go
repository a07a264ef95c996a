package reject_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
)

const action = "reject"

// UseCase use case для отклонения бронирования модератором
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
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
	history HistoryLog,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		history:      history,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит бронирование из pending в rejected
// Комментарий модератора обязателен
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("RejectBooking: booking=%d, moderator=%d", req.BookingID, req.ModeratorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RejectBooking: validation failed: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
		return nil, err
	}

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

		if !booking.CanBeModerated() {
			return fmt.Errorf("%w: cannot reject %s booking", domain.ErrInvalidTransition, booking.Status)
		}
		if err := validateComment(req.Comment); err != nil {
			return err
		}

		if err := uc.bookingRepo.UpdateModeration(txCtx, booking.ID, domain.StatusRejected, req.ModeratorID, req.Comment); err != nil {
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		details := map[string]any{"comment": req.Comment}
		if err := uc.history.Append(txCtx, booking.ID, &req.ModeratorID, domain.ActionRejected, details); err != nil {
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
			uc.logger.Warn("RejectBooking: %v", err)
			uc.metrics.ObserveTransition(action, "invalid")
		} else {
			uc.logger.Error("RejectBooking: %v", err)
			uc.metrics.ObserveTransition(action, "error")
		}
		return nil, err
	}

	uc.logger.Info("RejectBooking: booking id=%d rejected by moderator=%d", result.ID, req.ModeratorID)
	uc.metrics.ObserveTransition(action, "success")

	event := eventbus.NewBookingEvent(domain.ActionRejected, result, &req.ModeratorID, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("RejectBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return result, nil
}

func mapBookingError(err error, id int64) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
}
