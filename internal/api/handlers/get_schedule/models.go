package get_schedule

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// ScheduleResponse расписание подтверждённых бронирований на день
type ScheduleResponse struct {
	Date     string         `json:"date"`     // YYYY-MM-DD
	Timezone string         `json:"timezone"` // IANA имя
	Hours    []HourResponse `json:"hours"`
}

// HourResponse строка расписания
type HourResponse struct {
	Hour  int            `json:"hour"`
	Label string         `json:"label"`
	Rooms []RoomResponse `json:"rooms"`
}

// RoomResponse комната в часовой строке
type RoomResponse struct {
	RoomID   int64          `json:"roomId"`
	RoomName string         `json:"roomName"`
	Free     bool           `json:"free"`
	Slots    []SlotResponse `json:"slots"`
}

// SlotResponse бронирование в часовой строке, время в запрошенном часовом поясе
type SlotResponse struct {
	BookingID   int64     `json:"bookingId"`
	Title       string    `json:"title"`
	RequesterID int64     `json:"requesterId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// FromDomainTimeline конвертирует domain модель в DTO
func FromDomainTimeline(t *domain.Timeline) *ScheduleResponse {
	resp := &ScheduleResponse{
		Date:     t.Date.Format(domain.DateFormat),
		Timezone: t.Location.String(),
		Hours:    make([]HourResponse, 0, len(t.Hours)),
	}

	for _, hour := range t.Hours {
		row := HourResponse{
			Hour:  hour.Hour,
			Label: hour.Label,
			Rooms: make([]RoomResponse, 0, len(hour.Rooms)),
		}
		for _, room := range hour.Rooms {
			slots := make([]SlotResponse, 0, len(room.Slots))
			for _, s := range room.Slots {
				slots = append(slots, SlotResponse{
					BookingID:   s.BookingID,
					Title:       s.Title,
					RequesterID: s.RequesterID,
					StartTime:   s.StartTime,
					EndTime:     s.EndTime,
				})
			}
			row.Rooms = append(row.Rooms, RoomResponse{
				RoomID:   room.Room.ID,
				RoomName: room.Room.Name,
				Free:     room.IsFree(),
				Slots:    slots,
			})
		}
		resp.Hours = append(resp.Hours, row)
	}

	return resp
}
