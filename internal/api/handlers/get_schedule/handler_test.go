package get_schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	getSchedule "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_schedule"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type stubUseCase struct {
	got *getSchedule.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getSchedule.Request) (*domain.Timeline, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	room := &domain.Room{ID: 1, Name: "Orion"}

	return &domain.Timeline{
		Date:     day,
		Location: loc,
		Hours: []domain.TimelineHour{
			{Hour: 9, Label: "09:00", Rooms: []domain.RoomTimeline{{Room: room, Slots: []domain.TimelineSlot{
				{BookingID: 3, Title: "Retro", RequesterID: 7, StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour)},
			}}}},
			{Hour: 10, Label: "10:00", Rooms: []domain.RoomTimeline{{Room: room, Slots: []domain.TimelineSlot{}}}},
		},
	}, nil
}

func serve(uc *stubUseCase, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule"+query, nil))
	return rec
}

func TestHandle_Schedule(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, "?date=2025-03-11&tz=Europe/Moscow&roomId=1")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, "Europe/Moscow", uc.got.Location.String())
	require.NotNil(t, uc.got.RoomID)
	assert.Equal(t, int64(1), *uc.got.RoomID)

	var resp ScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-11", resp.Date)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	require.Len(t, resp.Hours, 2)
	assert.False(t, resp.Hours[0].Rooms[0].Free)
	assert.Equal(t, int64(3), resp.Hours[0].Rooms[0].Slots[0].BookingID)
	assert.True(t, resp.Hours[1].Rooms[0].Free)
	assert.NotNil(t, resp.Hours[1].Rooms[0].Slots)
}

func TestHandle_DefaultTimezone(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, "?date=2025-03-11")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, uc.got.Location)
	assert.Nil(t, uc.got.RoomID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{name: "missing date", query: "", status: http.StatusBadRequest},
		{name: "bad date", query: "?date=11.03.2025", status: http.StatusBadRequest},
		{name: "bad timezone", query: "?date=2025-03-11&tz=Mars/Olympus", status: http.StatusBadRequest},
		{name: "bad room", query: "?date=2025-03-11&roomId=-1", status: http.StatusBadRequest},
		{name: "unknown room", query: "?date=2025-03-11&roomId=9", err: domain.ErrNotFound, status: http.StatusNotFound},
		{name: "internal", query: "?date=2025-03-11", err: getSchedule.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.query)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
