package get_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type fixture struct {
	env    *usecasetest.Env
	uc     *UseCase
	orion  *domain.Room
	vega   *domain.Room
	closed *domain.Room
}

func newFixture(t *testing.T) *fixture {
	env := usecasetest.NewEnv()
	f := &fixture{
		env:    env,
		uc:     NewUseCase(env.Store.Bookings(), env.Store.Rooms(), env.Policy, env.Store, logger.Nop()),
		orion:  env.Room(t, "Orion", 6),
		vega:   env.Room(t, "Vega", 4),
		closed: env.Room(t, "Closed", 4),
	}

	f.closed.IsActive = false
	_, err := env.Store.Rooms().Update(context.Background(), f.closed)
	require.NoError(t, err)

	env.Booking(t, f.orion.ID, 10, domain.StatusApproved, usecasetest.At(9, 0), usecasetest.At(10, 0))
	env.Booking(t, f.vega.ID, 11, domain.StatusApproved, usecasetest.At(9, 30), usecasetest.At(10, 30))
	env.Booking(t, f.orion.ID, 12, domain.StatusPending, usecasetest.At(11, 0), usecasetest.At(12, 0))
	env.Booking(t, f.vega.ID, 13, domain.StatusCancelled, usecasetest.At(13, 0), usecasetest.At(14, 0))
	env.Booking(t, f.vega.ID, 14, domain.StatusRejected, usecasetest.At(14, 0), usecasetest.At(15, 0))
	env.Booking(t, f.closed.ID, 15, domain.StatusApproved, usecasetest.At(12, 0), usecasetest.At(13, 0))
	env.Booking(t, f.orion.ID, 16, domain.StatusApproved, usecasetest.At(9, 0).AddDate(0, 0, 1), usecasetest.At(10, 0).AddDate(0, 0, 1))

	return f
}

func hourRow(t *testing.T, tl *domain.Timeline, hour int) domain.TimelineHour {
	t.Helper()
	for _, row := range tl.Hours {
		if row.Hour == hour {
			return row
		}
	}
	t.Fatalf("hour %d is not in the timeline", hour)
	return domain.TimelineHour{}
}

func countSlots(tl *domain.Timeline) int {
	n := 0
	for _, row := range tl.Hours {
		for _, room := range row.Rooms {
			n += len(room.Slots)
		}
	}
	return n
}

func TestExecute_OnlyApprovedBookingsOfActiveRooms(t *testing.T) {
	f := newFixture(t)

	tl, err := f.uc.Execute(context.Background(), &Request{Date: usecasetest.At(0, 0)})
	require.NoError(t, err)

	require.Len(t, tl.Hours, 10)
	assert.Equal(t, 7, tl.Hours[0].Hour)
	assert.Equal(t, "07:00", tl.Hours[0].Label)
	assert.Equal(t, 16, tl.Hours[9].Hour)

	assert.Equal(t, 2, countSlots(tl))

	nine := hourRow(t, tl, 9)
	require.Len(t, nine.Rooms, 2)
	for _, room := range nine.Rooms {
		require.Len(t, room.Slots, 1, room.Room.Name)
		assert.False(t, room.IsFree())
	}

	for _, row := range tl.Hours {
		for _, room := range row.Rooms {
			assert.NotEqual(t, f.closed.ID, room.Room.ID)
		}
	}
}

func TestExecute_BucketsByViewerLocalHour(t *testing.T) {
	f := newFixture(t)
	msk := time.FixedZone("MSK", 3*60*60)

	tl, err := f.uc.Execute(context.Background(), &Request{Date: usecasetest.At(0, 0), Location: msk})
	require.NoError(t, err)

	assert.Equal(t, msk, tl.Location)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, msk), tl.Date)

	// рабочее окно 07:00-16:30 UTC в московском времени
	require.Len(t, tl.Hours, 10)
	assert.Equal(t, 10, tl.Hours[0].Hour)
	assert.Equal(t, 19, tl.Hours[9].Hour)
	assert.Equal(t, 2, countSlots(tl))

	noon := hourRow(t, tl, 12)
	require.Len(t, noon.Rooms, 2)
	for _, room := range noon.Rooms {
		require.Len(t, room.Slots, 1)
		assert.Equal(t, 12, room.Slots[0].StartTime.Hour())
		assert.Equal(t, msk, room.Slots[0].StartTime.Location())
	}
}

func TestExecute_ViewerWestOfPolicyKeepsBookings(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	env.Booking(t, room.ID, 10, domain.StatusApproved, usecasetest.At(8, 0), usecasetest.At(9, 0))
	env.Booking(t, room.ID, 11, domain.StatusApproved, usecasetest.At(15, 30), usecasetest.At(16, 30))
	uc := NewUseCase(env.Store.Bookings(), env.Store.Rooms(), env.Policy, env.Store, logger.Nop())
	west := time.FixedZone("UTC-3", -3*60*60)

	tl, err := uc.Execute(context.Background(), &Request{Date: usecasetest.At(0, 0), Location: west})
	require.NoError(t, err)

	require.Len(t, tl.Hours, 10)
	assert.Equal(t, 4, tl.Hours[0].Hour)
	assert.Equal(t, 13, tl.Hours[9].Hour)
	assert.Equal(t, 2, countSlots(tl))

	five := hourRow(t, tl, 5)
	require.Len(t, five.Rooms, 1)
	require.Len(t, five.Rooms[0].Slots, 1)
	assert.Equal(t, 5, five.Rooms[0].Slots[0].StartTime.Hour())
	assert.Equal(t, west, five.Rooms[0].Slots[0].StartTime.Location())

	twelve := hourRow(t, tl, 12)
	require.Len(t, twelve.Rooms[0].Slots, 1)
}

func TestExecute_SingleRoom(t *testing.T) {
	f := newFixture(t)

	tl, err := f.uc.Execute(context.Background(), &Request{Date: usecasetest.At(0, 0), RoomID: &f.orion.ID})
	require.NoError(t, err)

	nine := hourRow(t, tl, 9)
	require.Len(t, nine.Rooms, 1)
	assert.Equal(t, f.orion.ID, nine.Rooms[0].Room.ID)
	assert.Equal(t, 1, countSlots(tl))
}

func TestExecute_BookingOutsideWorkingHoursIsDropped(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	env.Booking(t, room.ID, 10, domain.StatusApproved, usecasetest.At(6, 30), usecasetest.At(7, 30))
	uc := NewUseCase(env.Store.Bookings(), env.Store.Rooms(), env.Policy, env.Store, logger.Nop())

	tl, err := uc.Execute(context.Background(), &Request{Date: usecasetest.At(0, 0)})
	require.NoError(t, err)
	assert.Zero(t, countSlots(tl))
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{})
	require.ErrorIs(t, err, ErrInvalidInput)

	missing := int64(404)
	_, err = f.uc.Execute(context.Background(), &Request{Date: usecasetest.At(0, 0), RoomID: &missing})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuildTimeline_LastHourWithoutMinutes(t *testing.T) {
	cfg := domain.DefaultBookingPolicy()
	cfg.WorkEndMinute = 0

	tl := buildTimeline(usecasetest.At(0, 0), time.UTC, cfg.WorkingHoursIn(usecasetest.At(0, 0)), nil, nil)
	require.NotEmpty(t, tl.Hours)
	assert.Equal(t, 15, tl.Hours[len(tl.Hours)-1].Hour)
}
