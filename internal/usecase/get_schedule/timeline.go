package get_schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// buildTimeline раскладывает подтверждённые бронирования по часам hours
// Бронирование попадает в час своего начала в loc
func buildTimeline(
	dayStart time.Time,
	loc *time.Location,
	hours []int,
	rooms []*domain.Room,
	bookings []*domain.Booking,
) domain.Timeline {
	byHour := make(map[int]map[int64][]domain.TimelineSlot, len(hours))
	for _, h := range hours {
		byHour[h] = make(map[int64][]domain.TimelineSlot)
	}

	for _, b := range bookings {
		if b.Status != domain.StatusApproved {
			continue
		}
		start, end := b.StartTime.In(loc), b.EndTime.In(loc)
		bucket, ok := byHour[start.Hour()]
		if !ok {
			continue
		}
		bucket[b.RoomID] = append(bucket[b.RoomID], domain.TimelineSlot{
			BookingID:   b.ID,
			Title:       b.Title,
			RequesterID: b.RequesterID,
			StartTime:   start,
			EndTime:     end,
		})
	}

	timeline := domain.Timeline{
		Date:     dayStart,
		Location: loc,
		Hours:    make([]domain.TimelineHour, 0, len(hours)),
	}

	for _, h := range hours {
		row := domain.TimelineHour{
			Hour:  h,
			Label: fmt.Sprintf("%02d:00", h),
			Rooms: make([]domain.RoomTimeline, 0, len(rooms)),
		}
		for _, room := range rooms {
			slots := byHour[h][room.ID]
			if slots == nil {
				slots = []domain.TimelineSlot{}
			}
			row.Rooms = append(row.Rooms, domain.RoomTimeline{Room: room, Slots: slots})
		}
		timeline.Hours = append(timeline.Hours, row)
	}

	return timeline
}
