package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
)

// BookingRepository бронирования в памяти
type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	defer r.s.lock(ctx)()

	if !booking.Status.IsValid() {
		return nil, fmt.Errorf("%w: Create - %q", bookingRepo.ErrInvalidStatus, booking.Status)
	}
	if _, ok := r.s.rooms[booking.RoomID]; !ok {
		return nil, bookingRepo.ErrRoomNotFound
	}
	if err := r.checkApprovedOverlap(booking); err != nil {
		return nil, err
	}

	r.s.nextBookingID++
	now := r.s.now()

	stored := copyBooking(booking)
	stored.ID = r.s.nextBookingID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.bookings[stored.ID] = stored

	booking.ID = stored.ID
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	defer r.s.lock(ctx)()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

// GetByIDForUpdate в памяти совпадает с GetByID: транзакции и так выполняются по одной
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) GetByRoomAndStatus(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	defer r.s.lock(ctx)()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.RoomID != filter.RoomID || !hasStatus(filter.Statuses, b.Status) {
			continue
		}
		if filter.ExcludeID != nil && b.ID == *filter.ExcludeID {
			continue
		}
		if filter.Window != nil && !b.Interval().Overlaps(*filter.Window) {
			continue
		}
		result = append(result, copyBooking(b))
	}

	sortByStart(result)
	return result, nil
}

func (r *BookingRepository) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	defer r.s.lock(ctx)()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if filter.RoomID != nil && b.RoomID != *filter.RoomID {
			continue
		}
		if filter.RequesterID != nil && b.RequesterID != *filter.RequesterID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, b.Status) {
			continue
		}
		if filter.StartFrom != nil && b.StartTime.Before(*filter.StartFrom) {
			continue
		}
		if filter.StartBefore != nil && !b.StartTime.Before(*filter.StartBefore) {
			continue
		}
		result = append(result, copyBooking(b))
	}

	if filter.Order == domain.OrderByCreatedAtDesc {
		sort.Slice(result, func(i, j int) bool {
			if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
				return result[i].CreatedAt.After(result[j].CreatedAt)
			}
			return result[i].ID > result[j].ID
		})
	} else {
		sortByStart(result)
	}

	return result, nil
}

func (r *BookingRepository) UpdateDetails(ctx context.Context, booking *domain.Booking) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.bookings[booking.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if _, ok := r.s.rooms[booking.RoomID]; !ok {
		return bookingRepo.ErrRoomNotFound
	}

	next := copyBooking(stored)
	next.RoomID = booking.RoomID
	next.Title = booking.Title
	next.Description = booking.Description
	next.StartTime = booking.StartTime
	next.EndTime = booking.EndTime
	next.ParticipantsCount = booking.ParticipantsCount
	if err := r.checkApprovedOverlap(next); err != nil {
		return err
	}

	next.UpdatedAt = r.s.now()
	r.s.bookings[next.ID] = next
	return nil
}

func (r *BookingRepository) UpdateModeration(ctx context.Context, id int64, status domain.BookingStatus, moderatorID int64, comment string) error {
	defer r.s.lock(ctx)()

	if status != domain.StatusApproved && status != domain.StatusRejected {
		return fmt.Errorf("%w: UpdateModeration - %q", bookingRepo.ErrInvalidStatus, status)
	}

	stored, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}

	next := copyBooking(stored)
	next.Status = status
	next.ModeratorID = &moderatorID
	next.ModerationComment = comment
	if err := r.checkApprovedOverlap(next); err != nil {
		return err
	}

	next.UpdatedAt = r.s.now()
	r.s.bookings[id] = next
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	defer r.s.lock(ctx)()

	if !status.IsValid() {
		return fmt.Errorf("%w: UpdateStatus - %q", bookingRepo.ErrInvalidStatus, status)
	}

	stored, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}

	next := copyBooking(stored)
	next.Status = status
	if err := r.checkApprovedOverlap(next); err != nil {
		return err
	}

	next.UpdatedAt = r.s.now()
	r.s.bookings[id] = next
	return nil
}

// checkApprovedOverlap повторяет ограничение исключения из схемы PostgreSQL:
// подтверждённые бронирования одной комнаты не пересекаются
func (r *BookingRepository) checkApprovedOverlap(b *domain.Booking) error {
	if b.Status != domain.StatusApproved {
		return nil
	}
	for _, other := range r.s.bookings {
		if other.ID == b.ID || other.RoomID != b.RoomID || other.Status != domain.StatusApproved {
			continue
		}
		if other.Interval().Overlaps(b.Interval()) {
			return fmt.Errorf("%w: overlaps booking %d", bookingRepo.ErrSlotNotAvailable, other.ID)
		}
	}
	return nil
}

func hasStatus(statuses []domain.BookingStatus, status domain.BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func sortByStart(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].StartTime.Equal(bookings[j].StartTime) {
			return bookings[i].StartTime.Before(bookings[j].StartTime)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
