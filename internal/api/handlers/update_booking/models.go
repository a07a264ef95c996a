package update_booking

import (
	"time"

	updateBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateBookingRequest struct {
	RoomID            *int64     `json:"roomId,omitempty"`
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	ParticipantsCount *int       `json:"participantsCount,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID, requesterID int64) *updateBooking.Request {
	return &updateBooking.Request{
		BookingID:         bookingID,
		RequesterID:       requesterID,
		RoomID:            r.RoomID,
		Title:             r.Title,
		Description:       r.Description,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		ParticipantsCount: r.ParticipantsCount,
	}
}
