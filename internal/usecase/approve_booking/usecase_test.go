package approve_booking

import (
	"context"
	"errors"
	"sync"
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

const moderatorID int64 = 1

func newUseCase(env *usecasetest.Env) *UseCase {
	uc := NewUseCase(
		env.Store.Bookings(),
		env.Store.Rooms(),
		env.Detector,
		env.History,
		env.Events,
		metrics.Nop{},
		env.Store,
		logger.Nop(),
	)
	uc.timeProvider = env.Clock
	return uc
}

func approve(uc *UseCase, id int64) (*domain.Booking, error) {
	return uc.Execute(context.Background(), &Request{BookingID: id, ModeratorID: moderatorID, Comment: " ok "})
}

func TestExecute_ApprovesPendingBooking(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	pending := env.Booking(t, room.ID, 10, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	approved, err := approve(uc, pending.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.ModeratorID)
	assert.Equal(t, moderatorID, *approved.ModeratorID)
	assert.Equal(t, "ok", approved.ModerationComment)

	entries := env.HistoryOf(t, pending.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionApproved, entries[0].Action)
	assert.Equal(t, "ok", entries[0].Details["comment"])

	events := env.Events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, eventbus.RoutingKeyApproved, events[0].Type)
}

func TestExecute_DisjointApprovalsCommute(t *testing.T) {
	orders := map[string][]int{
		"morning first":   {0, 1},
		"afternoon first": {1, 0},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			env := usecasetest.NewEnv()
			room := env.Room(t, "Orion", 6)
			bookings := []*domain.Booking{
				env.Booking(t, room.ID, 10, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0)),
				env.Booking(t, room.ID, 11, domain.StatusPending, usecasetest.At(14, 0), usecasetest.At(15, 0)),
			}
			uc := newUseCase(env)

			for _, i := range order {
				_, err := approve(uc, bookings[i].ID)
				require.NoError(t, err)
			}
			for _, b := range bookings {
				assert.Equal(t, domain.StatusApproved, env.Get(t, b.ID).Status)
			}
		})
	}
}

func TestExecute_OverlappingApprovalConflicts(t *testing.T) {
	orders := map[string][]int{
		"first then second": {0, 1},
		"second then first": {1, 0},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			env := usecasetest.NewEnv()
			room := env.Room(t, "Orion", 6)
			bookings := []*domain.Booking{
				env.Booking(t, room.ID, 10, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0)),
				env.Booking(t, room.ID, 11, domain.StatusPending, usecasetest.At(9, 30), usecasetest.At(10, 30)),
			}
			uc := newUseCase(env)

			winner, loser := bookings[order[0]], bookings[order[1]]

			_, err := approve(uc, winner.ID)
			require.NoError(t, err)

			_, err = approve(uc, loser.ID)
			require.ErrorIs(t, err, domain.ErrConflictDetected)

			conflicting, ok := domain.ConflictingBookings(err)
			require.True(t, ok)
			require.Len(t, conflicting, 1)
			assert.Equal(t, winner.ID, conflicting[0].ID)

			assert.Equal(t, domain.StatusPending, env.Get(t, loser.ID).Status)
			assert.Empty(t, env.HistoryOf(t, loser.ID))
		})
	}
}

func TestExecute_ConcurrentApprovalsOnSameRoom(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)

	const n = 8
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		start := usecasetest.At(9, i*5)
		b := env.Booking(t, room.ID, int64(10+i), domain.StatusPending, start, start.Add(time.Hour))
		ids = append(ids, b.ID)
	}
	uc := newUseCase(env)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := approve(uc, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrConflictDetected):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)

	approved, err := env.Store.Bookings().GetByRoomAndStatus(context.Background(), domain.RoomBookingsFilter{
		RoomID:   room.ID,
		Statuses: domain.ApprovedStatuses,
	})
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

func TestExecute_PendingDoesNotBlockApproval(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	target := env.Booking(t, room.ID, 10, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	env.Booking(t, room.ID, 11, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	_, err := approve(uc, target.ID)
	require.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		start   time.Time
		id      func(b *domain.Booking) int64
		wantErr error
	}{
		{
			name:    "not found",
			status:  domain.StatusPending,
			start:   usecasetest.At(9, 0),
			id:      func(*domain.Booking) int64 { return 999 },
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "already approved",
			status:  domain.StatusApproved,
			start:   usecasetest.At(9, 0),
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "cancelled",
			status:  domain.StatusCancelled,
			start:   usecasetest.At(9, 0),
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "already started",
			status:  domain.StatusPending,
			start:   usecasetest.Now.Add(-30 * time.Minute),
			wantErr: domain.ErrPastDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := usecasetest.NewEnv()
			room := env.Room(t, "Orion", 6)
			b := env.Booking(t, room.ID, 10, tt.status, tt.start, tt.start.Add(time.Hour))
			uc := newUseCase(env)

			id := b.ID
			if tt.id != nil {
				id = tt.id(b)
			}

			_, err := approve(uc, id)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, env.Get(t, b.ID).Status)
			assert.Empty(t, env.Events.Events())
		})
	}
}

func TestExecute_ConflictCheckedBeforePastDate(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	start := usecasetest.Now.Add(-30 * time.Minute)
	env.Booking(t, room.ID, 10, domain.StatusApproved, start, start.Add(time.Hour))
	pending := env.Booking(t, room.ID, 11, domain.StatusPending, start, start.Add(time.Hour))
	uc := newUseCase(env)

	_, err := approve(uc, pending.ID)
	require.ErrorIs(t, err, domain.ErrConflictDetected)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(usecasetest.NewEnv())

	_, err := uc.Execute(context.Background(), &Request{BookingID: 0, ModeratorID: moderatorID})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingID: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
}
