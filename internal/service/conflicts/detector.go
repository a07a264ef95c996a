package conflicts

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Detector ищет бронирования, пересекающиеся с интервалом
type Detector struct {
	querier BookingQuerier
}

// NewDetector создает детектор конфликтов
func NewDetector(querier BookingQuerier) *Detector {
	return &Detector{querier: querier}
}

// FindOverlaps возвращает бронирования комнаты с одним из статусов statuses,
// пересекающиеся с interval (полуоткрытые интервалы), отсортированные по началу.
// excludeID исключает само изменяемое бронирование.
func (d *Detector) FindOverlaps(
	ctx context.Context,
	roomID int64,
	interval domain.Interval,
	statuses []domain.BookingStatus,
	excludeID *int64,
) ([]*domain.Booking, error) {
	if len(statuses) == 0 {
		return []*domain.Booking{}, nil
	}

	candidates, err := d.querier.GetByRoomAndStatus(ctx, domain.RoomBookingsFilter{
		RoomID:    roomID,
		Statuses:  statuses,
		ExcludeID: excludeID,
		Window:    &interval,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: room=%d: %w", ErrQuery, roomID, err)
	}

	// Источник может вернуть лишнее (фильтр окна опционален), поэтому предикат проверяется здесь
	overlaps := make([]*domain.Booking, 0, len(candidates))
	for _, b := range candidates {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Interval().Overlaps(interval) {
			overlaps = append(overlaps, b)
		}
	}

	sort.SliceStable(overlaps, func(i, j int) bool {
		if !overlaps[i].StartTime.Equal(overlaps[j].StartTime) {
			return overlaps[i].StartTime.Before(overlaps[j].StartTime)
		}
		return overlaps[i].ID < overlaps[j].ID
	})

	return overlaps, nil
}

// Check возвращает *domain.ConflictError, если пересечения есть
func (d *Detector) Check(
	ctx context.Context,
	roomID int64,
	interval domain.Interval,
	statuses []domain.BookingStatus,
	excludeID *int64,
) error {
	overlaps, err := d.FindOverlaps(ctx, roomID, interval, statuses, excludeID)
	if err != nil {
		return err
	}
	if len(overlaps) > 0 {
		return domain.NewConflictError(overlaps)
	}
	return nil
}
