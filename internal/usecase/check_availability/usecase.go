package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

// UseCase use case для проверки, свободна ли комната в заданном интервале
type UseCase struct {
	roomRepo     RoomRepository
	finder       ConflictFinder
	policy       TimeWindowPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roomRepo RoomRepository,
	finder ConflictFinder,
	policy TimeWindowPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		roomRepo:     roomRepo,
		finder:       finder,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет временное окно, активность комнаты и пересечения
// с подтверждёнными бронированиями. Нарушения правил возвращаются в ответе, не ошибкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.RoomID <= 0 {
		return nil, fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CheckAvailability: room id=%d not found", req.RoomID)
			return nil, fmt.Errorf("%w: room id=%d", domain.ErrNotFound, req.RoomID)
		}
		uc.logger.Error("CheckAvailability: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	interval := domain.Interval{Start: req.StartTime, End: req.EndTime}
	resp := &Response{TimeValid: true, Conflicts: []*domain.Booking{}}
	var reasons []string

	// 1. Временное окно
	if err := uc.policy.Validate(interval, uc.timeProvider.Now()); err != nil {
		resp.TimeValid = false
		reasons = append(reasons, err.Error())
	}

	// 2. Комната
	if !room.IsActive {
		reasons = append(reasons, domain.ErrRoomInactive.Error())
	}

	// 3. Пересечения с подтверждёнными; для пустого интервала не имеют смысла
	if interval.IsValid() {
		conflicts, err := uc.finder.FindOverlaps(ctx, room.ID, interval, domain.ApprovedStatuses, nil)
		if err != nil {
			uc.logger.Error("CheckAvailability: failed to find conflicts for room id=%d: %v", room.ID, err)
			return nil, fmt.Errorf("%w: failed to find conflicts: %v", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			resp.Conflicting = true
			resp.Conflicts = conflicts
			reasons = append(reasons, domain.NewConflictError(conflicts).Error())
		}
	}

	resp.Available = len(reasons) == 0
	if !resp.Available {
		resp.Reason = reasons[0]
	}

	uc.logger.Info("CheckAvailability: room=%d, available=%t, conflicts=%d", room.ID, resp.Available, len(resp.Conflicts))

	return resp, nil
}
