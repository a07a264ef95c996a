package domain

import "time"

// HistoryAction is the kind of change recorded in the booking history
type HistoryAction string

const (
	ActionCreated   HistoryAction = "created"
	ActionUpdated   HistoryAction = "updated"
	ActionApproved  HistoryAction = "approved"
	ActionRejected  HistoryAction = "rejected"
	ActionCancelled HistoryAction = "cancelled"
)

// HistoryEntry is an append-only record of a booking state change
type HistoryEntry struct {
	ID        int64
	BookingID int64
	ActorID   *int64 // nil for system actions
	Action    HistoryAction
	Timestamp time.Time
	Details   map[string]any
}
