package reject_booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
)

const moderatorID int64 = 1

func newUseCase(env *usecasetest.Env) *UseCase {
	uc := NewUseCase(
		env.Store.Bookings(),
		env.Store.Rooms(),
		env.History,
		env.Events,
		metrics.Nop{},
		env.Store,
		logger.Nop(),
	)
	uc.timeProvider = env.Clock
	return uc
}

func TestExecute_RejectsWithComment(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	pending := env.Booking(t, room.ID, 10, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	rejected, err := uc.Execute(context.Background(), &Request{
		BookingID:   pending.ID,
		ModeratorID: moderatorID,
		Comment:     "  room is reserved for the board  ",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Equal(t, "room is reserved for the board", rejected.ModerationComment)
	require.NotNil(t, rejected.ModeratorID)
	assert.Equal(t, moderatorID, *rejected.ModeratorID)

	entries := env.HistoryOf(t, pending.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionRejected, entries[0].Action)
	assert.Equal(t, "room is reserved for the board", entries[0].Details["comment"])

	events := env.Events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, eventbus.RoutingKeyRejected, events[0].Type)
}

func TestExecute_EmptyCommentKeepsPending(t *testing.T) {
	for _, comment := range []string{"", "   ", "\n\t"} {
		env := usecasetest.NewEnv()
		room := env.Room(t, "Orion", 6)
		pending := env.Booking(t, room.ID, 10, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
		uc := newUseCase(env)

		_, err := uc.Execute(context.Background(), &Request{BookingID: pending.ID, ModeratorID: moderatorID, Comment: comment})
		require.ErrorIs(t, err, domain.ErrMissingRejectionComment)

		assert.Equal(t, domain.StatusPending, env.Get(t, pending.ID).Status)
		assert.Empty(t, env.HistoryOf(t, pending.ID))
		assert.Empty(t, env.Events.Events())
	}
}

func TestExecute_OnlyPendingCanBeRejected(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			env := usecasetest.NewEnv()
			room := env.Room(t, "Orion", 6)
			b := env.Booking(t, room.ID, 10, status, usecasetest.At(9, 0), usecasetest.At(10, 0))
			uc := newUseCase(env)

			for _, comment := range []string{"no", ""} {
				_, err := uc.Execute(context.Background(), &Request{BookingID: b.ID, ModeratorID: moderatorID, Comment: comment})
				require.ErrorIs(t, err, domain.ErrInvalidTransition)
				assert.NotErrorIs(t, err, domain.ErrMissingRejectionComment)
			}
			assert.Equal(t, status, env.Get(t, b.ID).Status)
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	uc := newUseCase(usecasetest.NewEnv())

	_, err := uc.Execute(context.Background(), &Request{BookingID: 42, ModeratorID: moderatorID, Comment: "no"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
