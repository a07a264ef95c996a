package domain

import "time"

// Room represents a bookable meeting room
type Room struct {
	ID                 int64
	Name               string
	Location           string
	Description        string
	Capacity           int
	HasProjector       bool
	HasVideoConference bool
	HasWhiteboard      bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Fits returns true if the room can hold the given number of participants
func (r *Room) Fits(participants int) bool {
	return participants <= r.Capacity
}
