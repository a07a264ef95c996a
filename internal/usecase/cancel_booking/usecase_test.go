package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
)

const requesterID int64 = 10

func newUseCase(env *usecasetest.Env) *UseCase {
	uc := NewUseCase(
		env.Store.Bookings(),
		env.Store.Rooms(),
		env.Policy,
		env.History,
		env.Events,
		metrics.Nop{},
		env.Store,
		logger.Nop(),
	)
	uc.timeProvider = env.Clock
	return uc
}

func cancel(uc *UseCase, id int64) (*domain.Booking, error) {
	return uc.Execute(context.Background(), &Request{BookingID: id, ActorID: requesterID})
}

func TestExecute_CancelsLiveBookings(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusPending, domain.StatusApproved} {
		t.Run(string(status), func(t *testing.T) {
			env := usecasetest.NewEnv()
			room := env.Room(t, "Orion", 6)
			b := env.Booking(t, room.ID, requesterID, status, usecasetest.At(9, 0), usecasetest.At(10, 0))
			uc := newUseCase(env)

			cancelled, err := cancel(uc, b.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, cancelled.Status)

			entries := env.HistoryOf(t, b.ID)
			require.Len(t, entries, 1)
			assert.Equal(t, domain.ActionCancelled, entries[0].Action)
			assert.Equal(t, string(status), entries[0].Details["previousStatus"])

			events := env.Events.Events()
			require.Len(t, events, 1)
			assert.Equal(t, eventbus.RoutingKeyCancelled, events[0].Type)
		})
	}
}

func TestExecute_CancelTwiceFails(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	b := env.Booking(t, room.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	first, err := cancel(uc, b.ID)
	require.NoError(t, err)

	_, err = cancel(uc, b.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	again := env.Get(t, b.ID)
	assert.Equal(t, domain.StatusCancelled, again.Status)
	assert.True(t, first.UpdatedAt.Equal(again.UpdatedAt))
	assert.Len(t, env.HistoryOf(t, b.ID), 1)
}

func TestExecute_RejectedCannotBeCancelled(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	b := env.Booking(t, room.ID, requesterID, domain.StatusRejected, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	_, err := cancel(uc, b.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestExecute_ApprovedInsideDeadline(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	start := usecasetest.Now.Add(time.Hour)
	b := env.Booking(t, room.ID, requesterID, domain.StatusApproved, start, start.Add(time.Hour))
	uc := newUseCase(env)

	_, err := cancel(uc, b.ID)
	require.ErrorIs(t, err, domain.ErrCancellationWindowClosed)
	assert.Equal(t, domain.StatusApproved, env.Get(t, b.ID).Status)
	assert.Empty(t, env.Events.Events())
}

func TestExecute_PendingInsideDeadline(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	start := usecasetest.Now.Add(time.Hour)
	b := env.Booking(t, room.ID, requesterID, domain.StatusPending, start, start.Add(time.Hour))
	uc := newUseCase(env)

	_, err := cancel(uc, b.ID)
	require.NoError(t, err)
}

func TestExecute_CancelledContextRollsBack(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	b := env.Booking(t, room.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()

	_, err := uc.Execute(ctx, &Request{BookingID: b.ID, ActorID: requesterID})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StatusPending, env.Get(t, b.ID).Status)
	assert.Empty(t, env.HistoryOf(t, b.ID))
}

func TestExecute_NotFound(t *testing.T) {
	uc := newUseCase(usecasetest.NewEnv())

	_, err := cancel(uc, 7)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
