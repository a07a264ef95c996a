package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "past date", err: fmt.Errorf("%w: start 09:00", domain.ErrPastDate), status: http.StatusBadRequest},
		{name: "outside hours", err: domain.ErrOutsideWorkingHours, status: http.StatusBadRequest},
		{name: "missing comment", err: domain.ErrMissingRejectionComment, status: http.StatusBadRequest},
		{name: "capacity", err: domain.ErrCapacityExceeded, status: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("%w: booking id=3", domain.ErrNotFound), status: http.StatusNotFound},
		{name: "access denied", err: domain.ErrAccessDenied, status: http.StatusForbidden},
		{name: "invalid transition", err: domain.ErrInvalidTransition, status: http.StatusConflict},
		{name: "window closed", err: domain.ErrCancellationWindowClosed, status: http.StatusUnprocessableEntity},
		{name: "room inactive", err: domain.ErrRoomInactive, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			require.True(t, RespondDomainError(rec, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}

	t.Run("internal error is not handled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.False(t, RespondDomainError(rec, errors.New("db is down")))
		assert.Zero(t, rec.Body.Len())
	})
}

func TestRespondDomainError_Conflict(t *testing.T) {
	start := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	err := fmt.Errorf("create: %w", domain.NewConflictError([]*domain.Booking{
		{ID: 4, RoomID: 1, RequesterID: 7, Title: "Retro", Status: domain.StatusApproved, StartTime: start, EndTime: start.Add(time.Hour)},
	}))
	rec := httptest.NewRecorder()

	require.True(t, RespondDomainError(rec, err))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, int64(4), body.Conflicts[0].ID)
	assert.Equal(t, "approved", body.Conflicts[0].Status)
	assert.True(t, body.Conflicts[0].StartTime.Equal(start))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}

	t.Run("unknown field", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a","extra":1}`))
		assert.Error(t, DecodeJSON(r, &dst))
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		assert.Error(t, DecodeJSON(r, &dst))
		assert.NoError(t, DecodeOptionalJSON(r, &dst))
	})

	t.Run("optional with body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"sync"}`))
		require.NoError(t, DecodeOptionalJSON(r, &dst))
		assert.Equal(t, "sync", dst.Title)
	})
}

func TestPathInt64(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "15", want: 15},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.raw})

			got, err := PathInt64(r, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?roomId=3&from=2025-03-11T10:00:00%2B03:00&bad=x", nil)

	roomID, err := QueryInt64(r, "roomId")
	require.NoError(t, err)
	require.NotNil(t, roomID)
	assert.Equal(t, int64(3), *roomID)

	missing, err := QueryInt64(r, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	from, err := QueryTime(r, "from")
	require.NoError(t, err)
	require.NotNil(t, from)
	assert.True(t, from.Equal(time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)))

	_, err = QueryTime(r, "bad")
	assert.Error(t, err)
}
