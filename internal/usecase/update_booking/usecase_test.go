package update_booking

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
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

const requesterID int64 = 10

func newUseCase(env *usecasetest.Env) *UseCase {
	uc := NewUseCase(
		env.Store.Bookings(),
		env.Store.Rooms(),
		env.Detector,
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

func TestExecute_MovesBooking(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	b := env.Booking(t, room.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	updated, err := uc.Execute(context.Background(), &Request{
		BookingID:   b.ID,
		RequesterID: requesterID,
		Title:       ptr.Ptr(" Retro "),
		StartTime:   ptr.Ptr(usecasetest.At(11, 0)),
		EndTime:     ptr.Ptr(usecasetest.At(12, 0)),
	})
	require.NoError(t, err)

	assert.Equal(t, "Retro", updated.Title)
	assert.True(t, updated.StartTime.Equal(usecasetest.At(11, 0)))
	assert.Equal(t, domain.StatusPending, updated.Status)

	entries := env.HistoryOf(t, b.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionUpdated, entries[0].Action)
	assert.Contains(t, entries[0].Details, "title")
	assert.Contains(t, entries[0].Details, "startTime")
	assert.Contains(t, entries[0].Details, "endTime")
	assert.NotContains(t, entries[0].Details, "roomId")

	events := env.Events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, eventbus.RoutingKeyUpdated, events[0].Type)
}

func TestExecute_OverlapWithItselfIsAllowed(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	b := env.Booking(t, room.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:   b.ID,
		RequesterID: requesterID,
		EndTime:     ptr.Ptr(usecasetest.At(10, 30)),
	})
	require.NoError(t, err)
}

func TestExecute_ConflictWithLiveBooking(t *testing.T) {
	for _, status := range domain.LiveStatuses {
		t.Run(string(status), func(t *testing.T) {
			env := usecasetest.NewEnv()
			room := env.Room(t, "Orion", 6)
			other := env.Booking(t, room.ID, 11, status, usecasetest.At(11, 0), usecasetest.At(12, 0))
			b := env.Booking(t, room.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
			uc := newUseCase(env)

			_, err := uc.Execute(context.Background(), &Request{
				BookingID:   b.ID,
				RequesterID: requesterID,
				EndTime:     ptr.Ptr(usecasetest.At(11, 30)),
			})
			require.ErrorIs(t, err, domain.ErrConflictDetected)

			conflicting, ok := domain.ConflictingBookings(err)
			require.True(t, ok)
			require.Len(t, conflicting, 1)
			assert.Equal(t, other.ID, conflicting[0].ID)

			assert.True(t, env.Get(t, b.ID).EndTime.Equal(usecasetest.At(10, 0)))
			assert.Empty(t, env.HistoryOf(t, b.ID))
		})
	}
}

func TestExecute_MoveToAnotherRoom(t *testing.T) {
	env := usecasetest.NewEnv()
	orion := env.Room(t, "Orion", 6)
	vega := env.Room(t, "Vega", 2)
	b := env.Booking(t, orion.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:         b.ID,
		RequesterID:       requesterID,
		RoomID:            &vega.ID,
		ParticipantsCount: ptr.Ptr(3),
	})
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	updated, err := uc.Execute(context.Background(), &Request{
		BookingID:   b.ID,
		RequesterID: requesterID,
		RoomID:      &vega.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, vega.ID, updated.RoomID)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		req     func(b *domain.Booking) *Request
		wantErr error
	}{
		{
			name:   "another requester",
			status: domain.StatusPending,
			req: func(b *domain.Booking) *Request {
				return &Request{BookingID: b.ID, RequesterID: 99, Title: ptr.Ptr("x")}
			},
			wantErr: domain.ErrAccessDenied,
		},
		{
			name:   "approved booking",
			status: domain.StatusApproved,
			req: func(b *domain.Booking) *Request {
				return &Request{BookingID: b.ID, RequesterID: requesterID, Title: ptr.Ptr("x")}
			},
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:   "outside working hours",
			status: domain.StatusPending,
			req: func(b *domain.Booking) *Request {
				return &Request{BookingID: b.ID, RequesterID: requesterID, EndTime: ptr.Ptr(usecasetest.At(16, 31))}
			},
			wantErr: domain.ErrOutsideWorkingHours,
		},
		{
			name:   "end before start",
			status: domain.StatusPending,
			req: func(b *domain.Booking) *Request {
				return &Request{BookingID: b.ID, RequesterID: requesterID, EndTime: ptr.Ptr(usecasetest.At(8, 0))}
			},
			wantErr: domain.ErrInvalidInterval,
		},
		{
			name:   "unknown room",
			status: domain.StatusPending,
			req: func(b *domain.Booking) *Request {
				return &Request{BookingID: b.ID, RequesterID: requesterID, RoomID: ptr.Ptr(int64(404))}
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "nothing to update",
			status: domain.StatusPending,
			req: func(b *domain.Booking) *Request {
				return &Request{BookingID: b.ID, RequesterID: requesterID}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:   "blank title",
			status: domain.StatusPending,
			req: func(b *domain.Booking) *Request {
				return &Request{BookingID: b.ID, RequesterID: requesterID, Title: ptr.Ptr("  ")}
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := usecasetest.NewEnv()
			room := env.Room(t, "Orion", 6)
			b := env.Booking(t, room.ID, requesterID, tt.status, usecasetest.At(9, 0), usecasetest.At(10, 0))
			uc := newUseCase(env)

			_, err := uc.Execute(context.Background(), tt.req(b))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.Events.Events())
		})
	}
}

func TestExecute_InactiveTargetRoom(t *testing.T) {
	env := usecasetest.NewEnv()
	orion := env.Room(t, "Orion", 6)
	closed := env.Room(t, "Closed", 6)
	closed.IsActive = false
	_, err := env.Store.Rooms().Update(context.Background(), closed)
	require.NoError(t, err)

	b := env.Booking(t, orion.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	_, err = uc.Execute(context.Background(), &Request{BookingID: b.ID, RequesterID: requesterID, RoomID: &closed.ID})
	require.ErrorIs(t, err, domain.ErrRoomInactive)
}

func TestExecute_NoChanges(t *testing.T) {
	env := usecasetest.NewEnv()
	room := env.Room(t, "Orion", 6)
	b := env.Booking(t, room.ID, requesterID, domain.StatusPending, usecasetest.At(9, 0), usecasetest.At(10, 0))
	uc := newUseCase(env)

	got, err := uc.Execute(context.Background(), &Request{BookingID: b.ID, RequesterID: requesterID, Title: ptr.Ptr(b.Title)})
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Empty(t, env.HistoryOf(t, b.ID))
	assert.Empty(t, env.Events.Events())
}
