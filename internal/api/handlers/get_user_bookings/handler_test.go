package get_user_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type stubService struct {
	got *models.GetUserBookingsRequest
	err error
}

func (s *stubService) GetUserBookings(_ context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingListResponse{
		Bookings: []models.BookingResponse{{ID: 1, Status: "pending"}},
		Stats:    &models.StatsResponse{Total: 1, Pending: 1},
	}, nil
}

func serve(svc *stubService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/users/{userId}/bookings", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 10))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Filters(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, "/users/10/bookings?status=pending&from=2025-03-01T00:00:00Z&to=2025-04-01T00:00:00Z&roomId=2")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(10), svc.got.UserID)
	assert.Equal(t, int64(10), svc.got.ViewerID)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "pending", *svc.got.Status)
	require.NotNil(t, svc.got.From)
	require.NotNil(t, svc.got.To)
	require.NotNil(t, svc.got.RoomID)
	assert.Equal(t, int64(2), *svc.got.RoomID)
	assert.Contains(t, rec.Body.String(), `"stats":{"total":1`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "invalid user", target: "/users/abc/bookings", status: http.StatusBadRequest},
		{name: "invalid from", target: "/users/10/bookings?from=yesterday", status: http.StatusBadRequest},
		{name: "invalid room", target: "/users/10/bookings?roomId=0", status: http.StatusBadRequest},
		{name: "unknown status", target: "/users/10/bookings?status=done", err: bookings.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "other user", target: "/users/11/bookings", err: domain.ErrAccessDenied, status: http.StatusForbidden},
		{name: "internal", target: "/users/10/bookings", err: bookings.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
