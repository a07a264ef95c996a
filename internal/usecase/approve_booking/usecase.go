package approve_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
)

const (
	action = "approve"

	// maxAttempts одна повторная попытка со свежим чтением после конфликта
	maxAttempts = 2
)

// UseCase use case для подтверждения бронирования модератором
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	detector     ConflictDetector
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
		history:      history,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит бронирование из pending в approved
// Пересечения проверяются только с подтверждёнными бронированиями той же комнаты.
// При конфликте выполняется ещё одна попытка в новой транзакции; если конфликт
// сохраняется, бронирование остаётся в pending
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("ApproveBooking: booking=%d, moderator=%d", req.BookingID, req.ModeratorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ApproveBooking: validation failed: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
		return nil, err
	}

	var (
		result *domain.Booking
		err    error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err = uc.approve(ctx, req)
		if err == nil || !errors.Is(err, domain.ErrConflictDetected) || attempt == maxAttempts {
			break
		}
		uc.logger.Warn("ApproveBooking: conflict on attempt %d for booking id=%d, re-reading", attempt, req.BookingID)
	}

	if err != nil {
		uc.observeFailure(err)
		return nil, err
	}

	uc.logger.Info("ApproveBooking: booking id=%d approved by moderator=%d", result.ID, req.ModeratorID)
	uc.metrics.ObserveTransition(action, "success")

	event := eventbus.NewBookingEvent(domain.ActionApproved, result, &req.ModeratorID, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("ApproveBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return result, nil
}

func (uc *UseCase) approve(ctx context.Context, req *Request) (*domain.Booking, error) {
	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Узнаём комнату и блокируем её до повторного чтения бронирования
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

		// 2. Подтвердить можно только ожидающую заявку
		if !booking.CanBeModerated() {
			return fmt.Errorf("%w: cannot approve %s booking", domain.ErrInvalidTransition, booking.Status)
		}

		// 3. Пересечения с подтверждёнными бронированиями, кроме самого себя
		if err := uc.detector.Check(txCtx, booking.RoomID, booking.Interval(), domain.ApprovedStatuses, &booking.ID); err != nil {
			if errors.Is(err, domain.ErrConflictDetected) {
				return err
			}
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}

		// 4. Начавшееся бронирование подтвердить нельзя
		now := uc.timeProvider.Now()
		if booking.StartTime.Before(now) {
			return fmt.Errorf("%w: booking started at %s", domain.ErrPastDate, booking.StartTime.Format(domain.DateTimeFormat))
		}

		// 5. Запись; ограничение исключения в БД страхует от гонки
		if err := uc.bookingRepo.UpdateModeration(txCtx, booking.ID, domain.StatusApproved, req.ModeratorID, req.Comment); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return fmt.Errorf("%w: %v", domain.ErrConflictDetected, err)
			}
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		details := map[string]any{"comment": req.Comment}
		if err := uc.history.Append(txCtx, booking.ID, &req.ModeratorID, domain.ActionApproved, details); err != nil {
			return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})

	return result, err
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
		uc.logger.Warn("ApproveBooking: %v", err)
		uc.metrics.ObserveConflict(action)
		uc.metrics.ObserveTransition(action, "conflict")
	case domain.IsBusinessError(err):
		uc.logger.Warn("ApproveBooking: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
	default:
		uc.logger.Error("ApproveBooking: %v", err)
		uc.metrics.ObserveTransition(action, "error")
	}
}
