package reject_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	rejectBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/reject_booking"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type stubUseCase struct {
	got *rejectBooking.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *rejectBooking.Request) (*domain.Booking, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Booking{ID: req.BookingID, Status: domain.StatusRejected, ModerationComment: req.Comment}, nil
}

func serve(uc *stubUseCase, payload string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/reject", NewHandler(uc, logger.Nop()).Handle)

	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(http.MethodPatch, "/bookings/8/reject", nil)
	} else {
		req = httptest.NewRequest(http.MethodPatch, "/bookings/8/reject", strings.NewReader(payload))
	}
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Rejected(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, `{"comment":"room is reserved for the board"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(8), uc.got.BookingID)
	assert.Equal(t, int64(1), uc.got.ModeratorID)
	assert.Contains(t, rec.Body.String(), `"status":"rejected"`)
}

func TestHandle_MissingComment(t *testing.T) {
	uc := &stubUseCase{err: domain.ErrMissingRejectionComment}

	rec := serve(uc, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, uc.got)
	assert.Empty(t, uc.got.Comment)
}

func TestHandle_NotPending(t *testing.T) {
	rec := serve(&stubUseCase{err: domain.ErrInvalidTransition}, `{"comment":"no"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
