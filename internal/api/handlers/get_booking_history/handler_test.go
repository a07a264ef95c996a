package get_booking_history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type stubService struct {
	limit int
	err   error
}

func (s *stubService) GetHistory(_ context.Context, id int64, _ int64, limit int) (*models.HistoryResponse, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return &models.HistoryResponse{BookingID: id, Entries: []models.HistoryEntryResponse{}}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		err       error
		status    int
		wantLimit int
	}{
		{name: "default limit", target: "/bookings/2/history", status: http.StatusOK, wantLimit: 0},
		{name: "explicit limit", target: "/bookings/2/history?limit=5", status: http.StatusOK, wantLimit: 5},
		{name: "bad limit", target: "/bookings/2/history?limit=-5", status: http.StatusBadRequest},
		{name: "not found", target: "/bookings/2/history", err: domain.ErrNotFound, status: http.StatusNotFound},
		{name: "forbidden", target: "/bookings/2/history", err: domain.ErrAccessDenied, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			r := mux.NewRouter()
			r.HandleFunc("/bookings/{bookingId}/history", NewHandler(svc, logger.Nop()).Handle)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = req.WithContext(middleware.WithUserID(req.Context(), 10))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.wantLimit, svc.limit)
				assert.JSONEq(t, `{"bookingId":2,"entries":[]}`, rec.Body.String())
			}
		})
	}
}
