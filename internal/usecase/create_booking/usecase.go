package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
)

const action = "create"

// UseCase use case для создания бронирования
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

// Execute создает заявку на бронирование в статусе pending
// Проверка пересечений и запись выполняются в сериализуемой транзакции
// под блокировкой строки комнаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: requester=%d, room=%d, start=%s, end=%s",
		req.RequesterID, req.RoomID, req.StartTime.Format(domain.DateTimeFormat), req.EndTime.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
		return nil, err
	}

	// 2. Проверка временного окна
	now := uc.timeProvider.Now()
	interval := domain.Interval{Start: req.StartTime, End: req.EndTime}
	if err := uc.policy.Validate(interval, now); err != nil {
		uc.logger.Warn("CreateBooking: time window rejected: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
		return nil, err
	}

	var result *domain.Booking

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем комнату: все переходы по комнате идут по очереди
		room, err := uc.roomRepo.LockForUpdate(txCtx, req.RoomID)
		if err != nil {
			if errors.Is(err, roomRepo.ErrRoomNotFound) {
				return fmt.Errorf("%w: room id=%d", domain.ErrNotFound, req.RoomID)
			}
			return fmt.Errorf("%w: failed to lock room: %w", ErrInternal, err)
		}

		// 3.2. Комната должна быть активной и вмещать участников
		if !room.IsActive {
			return fmt.Errorf("%w: room id=%d", domain.ErrRoomInactive, room.ID)
		}
		if !room.Fits(req.ParticipantsCount) {
			return fmt.Errorf("%w: %d participants, capacity %d",
				domain.ErrCapacityExceeded, req.ParticipantsCount, room.Capacity)
		}

		// 3.3. Заявка не должна пересекаться ни с ожидающими, ни с подтверждёнными
		if err := uc.detector.Check(txCtx, room.ID, interval, domain.LiveStatuses, nil); err != nil {
			if errors.Is(err, domain.ErrConflictDetected) {
				return err
			}
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}

		// 3.4. Сохраняем бронирование; статус всегда pending
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			RoomID:            room.ID,
			RequesterID:       req.RequesterID,
			Title:             req.Title,
			Description:       req.Description,
			StartTime:         req.StartTime,
			EndTime:           req.EndTime,
			ParticipantsCount: req.ParticipantsCount,
			Status:            domain.StatusPending,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrRoomNotFound) {
				return fmt.Errorf("%w: room id=%d", domain.ErrNotFound, req.RoomID)
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 3.5. Запись в журнал в той же транзакции
		details := map[string]any{"title": created.Title, "room": room.Name}
		if err := uc.history.Append(txCtx, created.ID, &req.RequesterID, domain.ActionCreated, details); err != nil {
			return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		uc.observeFailure(err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	uc.metrics.ObserveTransition(action, "success")

	// 4. Событие публикуется только после фиксации транзакции
	event := eventbus.NewBookingEvent(domain.ActionCreated, result, &req.RequesterID, now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return result, nil
}

func (uc *UseCase) observeFailure(err error) {
	switch {
	case errors.Is(err, domain.ErrConflictDetected):
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveConflict(action)
		uc.metrics.ObserveTransition(action, "conflict")
	case domain.IsBusinessError(err):
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveTransition(action, "invalid")
	default:
		uc.logger.Error("CreateBooking: %v", err)
		uc.metrics.ObserveTransition(action, "error")
	}
}
