package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func seedRoom(t *testing.T, s *Store) *domain.Room {
	t.Helper()
	room, err := s.Rooms().Create(context.Background(), &domain.Room{Name: "Blue", Capacity: 8, IsActive: true})
	require.NoError(t, err)
	return room
}

func TestStore_RollbackOnError(t *testing.T) {
	s := NewStore()
	room := seedRoom(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.Bookings().Create(txCtx, &domain.Booking{
			RoomID: room.ID, RequesterID: 1, StartTime: t0, EndTime: t0.Add(time.Hour), Status: domain.StatusPending,
		})
		require.NoError(t, err)
		_, err = s.History().Append(txCtx, &domain.HistoryEntry{BookingID: b.ID, Action: domain.ActionCreated})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := s.Bookings().GetByFilter(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	entries, err := s.History().GetByBookingID(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// идентификаторы тоже откатываются
	b, err := s.Bookings().Create(ctx, &domain.Booking{
		RoomID: room.ID, RequesterID: 1, StartTime: t0, EndTime: t0.Add(time.Hour), Status: domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
}

func TestStore_ApprovedOverlapIsRejected(t *testing.T) {
	s := NewStore()
	room := seedRoom(t, s)
	ctx := context.Background()

	first, err := s.Bookings().Create(ctx, &domain.Booking{
		RoomID: room.ID, StartTime: t0, EndTime: t0.Add(time.Hour), Status: domain.StatusApproved,
	})
	require.NoError(t, err)

	second, err := s.Bookings().Create(ctx, &domain.Booking{
		RoomID: room.ID, StartTime: t0.Add(30 * time.Minute), EndTime: t0.Add(90 * time.Minute), Status: domain.StatusPending,
	})
	require.NoError(t, err, "pending bookings may overlap")

	err = s.Bookings().UpdateModeration(ctx, second.ID, domain.StatusApproved, 99, "")
	assert.ErrorIs(t, err, bookingRepo.ErrSlotNotAvailable)

	// соседний интервал, касающийся границы, не пересекается
	_, err = s.Bookings().Create(ctx, &domain.Booking{
		RoomID: room.ID, StartTime: first.EndTime, EndTime: first.EndTime.Add(time.Hour), Status: domain.StatusApproved,
	})
	assert.NoError(t, err)
}

func TestStore_NotFoundErrors(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Bookings().GetByID(ctx, 42)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)

	_, err = s.Rooms().GetByID(ctx, 42)
	assert.ErrorIs(t, err, roomRepo.ErrRoomNotFound)

	_, err = s.Bookings().Create(ctx, &domain.Booking{RoomID: 42, Status: domain.StatusPending})
	assert.ErrorIs(t, err, bookingRepo.ErrRoomNotFound)
}

func TestStore_RoomWithBookingsCannotBeDeleted(t *testing.T) {
	s := NewStore()
	room := seedRoom(t, s)
	ctx := context.Background()

	_, err := s.Bookings().Create(ctx, &domain.Booking{
		RoomID: room.ID, StartTime: t0, EndTime: t0.Add(time.Hour), Status: domain.StatusCancelled,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Rooms().Delete(ctx, room.ID), roomRepo.ErrRoomInUse)
}

func TestStore_HistoryNewestFirst(t *testing.T) {
	clock := t0
	s := NewStore().WithClock(func() time.Time { return clock })
	ctx := context.Background()

	for _, action := range []domain.HistoryAction{domain.ActionCreated, domain.ActionUpdated, domain.ActionApproved} {
		_, err := s.History().Append(ctx, &domain.HistoryEntry{BookingID: 1, Action: action})
		require.NoError(t, err)
	}
	clock = clock.Add(time.Minute)
	_, err := s.History().Append(ctx, &domain.HistoryEntry{BookingID: 1, Action: domain.ActionCancelled})
	require.NoError(t, err)

	entries, err := s.History().GetByBookingID(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionCancelled, entries[0].Action)
	assert.Equal(t, domain.ActionApproved, entries[1].Action)
	assert.Equal(t, domain.ActionUpdated, entries[2].Action)
}

func TestStore_CancelledContextRollsBack(t *testing.T) {
	s := NewStore()
	room := seedRoom(t, s)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := s.Bookings().Create(txCtx, &domain.Booking{
			RoomID: room.ID, StartTime: t0, EndTime: t0.Add(time.Hour), Status: domain.StatusPending,
		})
		cancel()
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)

	all, err := s.Bookings().GetByFilter(context.Background(), domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
