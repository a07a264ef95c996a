package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
// Время передаётся в RFC 3339 со смещением, например "2025-03-11T10:00:00+03:00"
type CreateBookingRequest struct {
	RoomID            int64     `json:"roomId"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	ParticipantsCount int       `json:"participantsCount,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) *createBooking.Request {
	return &createBooking.Request{
		RoomID:            r.RoomID,
		RequesterID:       requesterID,
		Title:             r.Title,
		Description:       r.Description,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		ParticipantsCount: r.ParticipantsCount,
	}
}
