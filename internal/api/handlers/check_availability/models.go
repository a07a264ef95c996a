package check_availability

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
	checkAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Available   bool                     `json:"available"`
	TimeValid   bool                     `json:"timeValid"`
	Reason      string                   `json:"reason,omitempty"`
	Conflicting bool                     `json:"conflicting"`
	Conflicts   []models.BookingResponse `json:"conflicts"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		Available:   resp.Available,
		TimeValid:   resp.TimeValid,
		Reason:      resp.Reason,
		Conflicting: resp.Conflicting,
		Conflicts:   models.FromDomainBookingList(resp.Conflicts).Bookings,
	}
}
