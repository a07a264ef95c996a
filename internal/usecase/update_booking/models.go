package update_booking

import "time"

// Request изменение ожидающей заявки её автором
// nil поля не меняются
type Request struct {
	BookingID         int64
	RequesterID       int64
	RoomID            *int64
	Title             *string
	Description       *string
	StartTime         *time.Time
	EndTime           *time.Time
	ParticipantsCount *int
}

func (r *Request) isEmpty() bool {
	return r.RoomID == nil && r.Title == nil && r.Description == nil &&
		r.StartTime == nil && r.EndTime == nil && r.ParticipantsCount == nil
}
