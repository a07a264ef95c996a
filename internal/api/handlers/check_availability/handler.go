package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_availability"
)

const (
	msgInvalidRoomID   = "некорректный ID комнаты"
	msgInvalidInterval = "параметры start и end обязательны, ожидается RFC 3339"
	msgRoomNotFound    = "комната не найдена"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?roomId=&start=&end=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.QueryInt64(r, "roomId")
	if err != nil || roomID == nil {
		h.logger.Warn("GET /availability - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	start, err := handlers.QueryTime(r, "start")
	if err != nil || start == nil {
		h.logger.Warn("GET /availability - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}
	end, err := handlers.QueryTime(r, "end")
	if err != nil || end == nil {
		h.logger.Warn("GET /availability - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		RoomID:    *roomID,
		StartTime: *start,
		EndTime:   *end,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /availability - Room not found: room_id=%d", *roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		default:
			h.logger.Error("GET /availability - Failed to check availability: room_id=%d, error=%v", *roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Checked: room_id=%d, available=%t", *roomID, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
