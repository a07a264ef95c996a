package get_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	getSchedule "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_schedule"
)

const (
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRoomID   = "некорректный ID комнаты"
	msgInvalidTimezone = "неизвестный часовой пояс"
	msgRoomNotFound    = "комната не найдена"
)

type Handler struct {
	useCase GetScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedule?date=YYYY-MM-DD&roomId=&tz=Europe/Moscow
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /schedule - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	roomID, err := handlers.QueryInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /schedule - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	// Без tz используется часовой пояс политики бронирования
	var loc *time.Location
	if tz := query.Get("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			h.logger.Warn("GET /schedule - Invalid timezone %q: %v", tz, err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)
			return
		}
	}

	timeline, err := h.useCase.Execute(r.Context(), &getSchedule.Request{
		Date:     date,
		RoomID:   roomID,
		Location: loc,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSchedule.ErrInvalidInput):
			h.logger.Warn("GET /schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /schedule - Room not found: %v", err)
			handlers.RespondNotFound(w, msgRoomNotFound)

		default:
			h.logger.Error("GET /schedule - Failed to build schedule: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule - Schedule built: date=%s, hours=%d", query.Get("date"), len(timeline.Hours))
	handlers.RespondJSON(w, http.StatusOK, FromDomainTimeline(timeline))
}
