package approve_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
	approveBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/approve_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные запроса"
)

// ApproveBookingRequest HTTP request model, тело необязательно
type ApproveBookingRequest struct {
	Comment string `json:"comment,omitempty"`
}

type Handler struct {
	useCase ApproveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ApproveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	moderatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ApproveBookingRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/approve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), &approveBooking.Request{
		BookingID:   bookingID,
		ModeratorID: moderatorID,
		Comment:     req.Comment,
	})
	if err != nil {
		if errors.Is(err, approveBooking.ErrInvalidInput) {
			h.logger.Warn("PATCH /bookings/{id}/approve - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput+": "+err.Error())
			return
		}
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /bookings/{id}/approve - Rejected: booking_id=%d, moderator_id=%d, error=%v",
				bookingID, moderatorID, err)
			return
		}
		h.logger.Error("PATCH /bookings/{id}/approve - Failed to approve booking: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/approve - Booking approved: booking_id=%d, moderator_id=%d",
		bookingID, moderatorID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
