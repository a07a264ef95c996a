package get_pending_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const msgInvalidRoomID = "некорректный ID комнаты"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/moderation/pending?roomId=
// Доступ только модераторам (middleware.RequireModerator)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.QueryInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /moderation/pending - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	result, err := h.service.GetPendingBookings(r.Context(), roomID)
	if err != nil {
		h.logger.Error("GET /moderation/pending - Failed to get pending bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /moderation/pending - Pending bookings retrieved: count=%d", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
