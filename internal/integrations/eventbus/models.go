package eventbus

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Ключи маршрутизации событий бронирований
const (
	RoutingKeyCreated   = "booking.created"
	RoutingKeyUpdated   = "booking.updated"
	RoutingKeyApproved  = "booking.approved"
	RoutingKeyRejected  = "booking.rejected"
	RoutingKeyCancelled = "booking.cancelled"
)

// BookingEvent событие изменения бронирования
type BookingEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	BookingID   int64     `json:"booking_id"`
	RoomID      int64     `json:"room_id"`
	RequesterID int64     `json:"requester_id"`
	ActorID     *int64    `json:"actor_id,omitempty"`
	Status      string    `json:"status"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Comment     string    `json:"comment,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewBookingEvent собирает событие по действию журнала и состоянию бронирования
func NewBookingEvent(action domain.HistoryAction, booking *domain.Booking, actorID *int64, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		ID:          uuid.NewString(),
		Type:        RoutingKey(action),
		BookingID:   booking.ID,
		RoomID:      booking.RoomID,
		RequesterID: booking.RequesterID,
		ActorID:     actorID,
		Status:      string(booking.Status),
		StartTime:   booking.StartTime.UTC(),
		EndTime:     booking.EndTime.UTC(),
		Comment:     booking.ModerationComment,
		OccurredAt:  occurredAt.UTC(),
	}
}

// RoutingKey ключ маршрутизации для действия
func RoutingKey(action domain.HistoryAction) string {
	switch action {
	case domain.ActionCreated:
		return RoutingKeyCreated
	case domain.ActionUpdated:
		return RoutingKeyUpdated
	case domain.ActionApproved:
		return RoutingKeyApproved
	case domain.ActionRejected:
		return RoutingKeyRejected
	case domain.ActionCancelled:
		return RoutingKeyCancelled
	}
	return "booking." + string(action)
}
