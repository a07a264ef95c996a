package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true for one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Booking represents a room booking request and its moderation state
type Booking struct {
	ID                int64
	RoomID            int64
	RequesterID       int64
	Title             string
	Description       string
	StartTime         time.Time
	EndTime           time.Time
	ParticipantsCount int
	Status            BookingStatus

	// Moderation
	ModeratorID       *int64
	ModerationComment string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open time range occupied by the booking
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsLive returns true if the booking still blocks its time range for new requests
func (b *Booking) IsLive() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// CanBeModerated returns true if a moderator may approve or reject the booking
func (b *Booking) CanBeModerated() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the status allows cancellation
// The cancellation deadline is checked separately by the time window policy
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// CanBeUpdated returns true if the requester may still edit the booking
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending
}

// IsTerminal returns true for rejected and cancelled bookings
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCancelled
}

// RoomBookingsFilter selects bookings of one room for conflict detection
type RoomBookingsFilter struct {
	RoomID    int64
	Statuses  []BookingStatus
	ExcludeID *int64    // booking being changed, never conflicts with itself
	Window    *Interval // only bookings overlapping the window (optional)
}

// BookingOrder sort order for booking lists
type BookingOrder string

const (
	OrderByStartAsc      BookingOrder = "start_asc"
	OrderByCreatedAtDesc BookingOrder = "created_at_desc"
)

// BookingsFilter generic filter for booking lists
type BookingsFilter struct {
	RoomID      *int64
	RequesterID *int64
	Statuses    []BookingStatus
	StartFrom   *time.Time // start_time >= StartFrom
	StartBefore *time.Time // start_time < StartBefore
	Order       BookingOrder
}

// StatusCounts number of bookings per status
type StatusCounts struct {
	Total     int
	Pending   int
	Approved  int
	Rejected  int
	Cancelled int
}

// CountByStatus aggregates bookings by status
func CountByStatus(bookings []*Booking) StatusCounts {
	counts := StatusCounts{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case StatusPending:
			counts.Pending++
		case StatusApproved:
			counts.Approved++
		case StatusRejected:
			counts.Rejected++
		case StatusCancelled:
			counts.Cancelled++
		}
	}
	return counts
}
