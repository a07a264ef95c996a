package approve_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	approveBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/approve_booking"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type stubUseCase struct {
	got *approveBooking.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *approveBooking.Request) (*domain.Booking, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Booking{ID: req.BookingID, Status: domain.StatusApproved, ModeratorID: &req.ModeratorID}, nil
}

func serve(uc *stubUseCase, path string, payload string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/approve", NewHandler(uc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(payload))
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Approved(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		comment string
	}{
		{name: "without body", payload: "", comment: ""},
		{name: "with comment", payload: `{"comment":"ok"}`, comment: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}

			rec := serve(uc, "/bookings/4/approve", tt.payload)

			require.Equal(t, http.StatusOK, rec.Code)
			require.NotNil(t, uc.got)
			assert.Equal(t, int64(4), uc.got.BookingID)
			assert.Equal(t, int64(1), uc.got.ModeratorID)
			assert.Equal(t, tt.comment, uc.got.Comment)
		})
	}
}

func TestHandle_Conflict(t *testing.T) {
	uc := &stubUseCase{err: domain.NewConflictError([]*domain.Booking{{ID: 2, Status: domain.StatusApproved}})}

	rec := serve(uc, "/bookings/4/approve", "")

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(2), resp.Conflicts[0].ID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{name: "invalid id", path: "/bookings/x/approve", status: http.StatusBadRequest},
		{name: "not found", path: "/bookings/4/approve", err: domain.ErrNotFound, status: http.StatusNotFound},
		{name: "already approved", path: "/bookings/4/approve", err: domain.ErrInvalidTransition, status: http.StatusConflict},
		{name: "already started", path: "/bookings/4/approve", err: domain.ErrPastDate, status: http.StatusBadRequest},
		{name: "long comment", path: "/bookings/4/approve", err: approveBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", path: "/bookings/4/approve", err: approveBooking.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
