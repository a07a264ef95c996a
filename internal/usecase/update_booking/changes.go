package update_booking

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// applyChanges применяет запрос к копии бронирования и возвращает изменённые поля
// в виде {поле: {"from": старое, "to": новое}} для журнала
func applyChanges(current *domain.Booking, req *Request) (*domain.Booking, map[string]any) {
	next := *current
	changes := make(map[string]any)

	record := func(field string, from, to any) {
		changes[field] = map[string]any{"from": from, "to": to}
	}

	if req.RoomID != nil && *req.RoomID != current.RoomID {
		record("roomId", current.RoomID, *req.RoomID)
		next.RoomID = *req.RoomID
	}
	if req.Title != nil && *req.Title != current.Title {
		record("title", current.Title, *req.Title)
		next.Title = *req.Title
	}
	if req.Description != nil && *req.Description != current.Description {
		record("description", current.Description, *req.Description)
		next.Description = *req.Description
	}
	if req.StartTime != nil && !req.StartTime.Equal(current.StartTime) {
		record("startTime", formatTime(current.StartTime), formatTime(*req.StartTime))
		next.StartTime = *req.StartTime
	}
	if req.EndTime != nil && !req.EndTime.Equal(current.EndTime) {
		record("endTime", formatTime(current.EndTime), formatTime(*req.EndTime))
		next.EndTime = *req.EndTime
	}
	if req.ParticipantsCount != nil && *req.ParticipantsCount != current.ParticipantsCount {
		record("participantsCount", current.ParticipantsCount, *req.ParticipantsCount)
		next.ParticipantsCount = *req.ParticipantsCount
	}

	return &next, changes
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func changed(changes map[string]any, fields ...string) bool {
	for _, f := range fields {
		if _, ok := changes[f]; ok {
			return true
		}
	}
	return false
}
