package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

func TestLog_AppendAndQuery(t *testing.T) {
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore().WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	log := NewLog(store.History())
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, 1, ptr.Ptr(int64(10)), domain.ActionCreated, map[string]any{"title": "Standup", "room": "Blue"}))
	require.NoError(t, log.Append(ctx, 2, ptr.Ptr(int64(11)), domain.ActionCreated, nil))
	require.NoError(t, log.Append(ctx, 1, ptr.Ptr(int64(99)), domain.ActionApproved, map[string]any{"comment": "ok"}))
	require.NoError(t, log.Append(ctx, 1, nil, domain.ActionCancelled, map[string]any{"previousStatus": "approved"}))

	entries, err := log.Query(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionCancelled, entries[0].Action)
	assert.Nil(t, entries[0].ActorID)
	assert.Equal(t, domain.ActionApproved, entries[1].Action)
	assert.Equal(t, "ok", entries[1].Details["comment"])
	assert.Equal(t, domain.ActionCreated, entries[2].Action)

	// повторный запрос видит то же самое
	again, err := log.Query(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, entries[0].ID, again[0].ID)
}

func TestLog_RejectsUnknownAction(t *testing.T) {
	log := NewLog(memory.NewStore().History())

	err := log.Append(context.Background(), 1, nil, domain.HistoryAction("deleted"), nil)
	assert.ErrorIs(t, err, ErrInvalidAction)
}
