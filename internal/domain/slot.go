package domain

import "time"

// TimelineSlot is an approved booking placed into an hour bucket of the schedule
type TimelineSlot struct {
	BookingID   int64
	Title       string
	RequesterID int64
	StartTime   time.Time // in the viewer's location
	EndTime     time.Time // in the viewer's location
}

// RoomTimeline holds the slots of one room within one hour bucket
type RoomTimeline struct {
	Room  *Room
	Slots []TimelineSlot
}

// IsFree returns true if the room has no approved bookings starting in this hour
func (r *RoomTimeline) IsFree() bool {
	return len(r.Slots) == 0
}

// TimelineHour is one hour row of the schedule
type TimelineHour struct {
	Hour  int
	Label string // "HH:00"
	Rooms []RoomTimeline
}

// Timeline is the schedule of approved bookings for one local day
type Timeline struct {
	Date     time.Time // midnight in Location
	Location *time.Location
	Hours    []TimelineHour
}
