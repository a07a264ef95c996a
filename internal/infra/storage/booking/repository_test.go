package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

func TestRoomBookingsQuery(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	query, args, err := roomBookingsQuery(domain.RoomBookingsFilter{
		RoomID:    4,
		Statuses:  domain.LiveStatuses,
		ExcludeID: ptr.Ptr(int64(12)),
		Window:    &domain.Interval{Start: start, End: end},
	}, true)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM bookings WHERE room_id = $1 AND status IN ($2,$3) AND id <> $4 AND start_time < $5 AND end_time > $6")
	assert.Contains(t, query, "ORDER BY start_time ASC, id ASC FOR UPDATE")
	assert.Equal(t, []interface{}{int64(4), "pending", "approved", int64(12), end, start}, args)
}

func TestRoomBookingsQuery_NoLockOutsideTransaction(t *testing.T) {
	query, _, err := roomBookingsQuery(domain.RoomBookingsFilter{RoomID: 1, Statuses: domain.ApprovedStatuses}, false)
	require.NoError(t, err)

	assert.NotContains(t, query, "FOR UPDATE")
	assert.NotContains(t, query, "id <>")
}

func TestFilterQuery(t *testing.T) {
	query, args, err := filterQuery(domain.BookingsFilter{
		RequesterID: ptr.Ptr(int64(7)),
		Statuses:    []domain.BookingStatus{domain.StatusPending},
		Order:       domain.OrderByCreatedAtDesc,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE requester_id = $1 AND status IN ($2)")
	assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
	assert.Equal(t, []interface{}{int64(7), "pending"}, args)
}

func TestMapWriteError(t *testing.T) {
	err := mapWriteError("Create", &pq.Error{Code: codeExclusionViolation})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	err = mapWriteError("Create", &pq.Error{Code: codeForeignKeyViolation})
	assert.ErrorIs(t, err, ErrRoomNotFound)

	err = mapWriteError("Create", &pq.Error{Code: "40001"})
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, txmanager.IsRetryable(err), "serialization failures must stay retryable")

	err = mapWriteError("Create", errors.New("boom"))
	assert.ErrorIs(t, err, ErrExecQuery)
}
