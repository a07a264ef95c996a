package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// domainErrors сообщения и статусы для нарушений правил бронирования
var domainErrors = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrInvalidInterval, http.StatusBadRequest, "время окончания должно быть позже времени начала"},
	{domain.ErrPastDate, http.StatusBadRequest, "время начала уже прошло"},
	{domain.ErrAdvanceLimitExceeded, http.StatusBadRequest, "бронирование слишком далеко в будущем"},
	{domain.ErrDurationOutOfRange, http.StatusBadRequest, "недопустимая длительность бронирования"},
	{domain.ErrOutsideWorkingHours, http.StatusBadRequest, "бронирование выходит за рабочие часы"},
	{domain.ErrMissingRejectionComment, http.StatusBadRequest, "для отклонения нужен комментарий"},
	{domain.ErrCapacityExceeded, http.StatusBadRequest, "участников больше, чем вмещает комната"},
	{domain.ErrNotFound, http.StatusNotFound, "не найдено"},
	{domain.ErrAccessDenied, http.StatusForbidden, "доступ запрещен"},
	{domain.ErrInvalidTransition, http.StatusConflict, "действие недоступно в текущем статусе бронирования"},
	{domain.ErrRoomHasFutureBookings, http.StatusConflict, "у комнаты есть будущие подтверждённые бронирования"},
	{domain.ErrCancellationWindowClosed, http.StatusUnprocessableEntity, "срок отмены подтверждённого бронирования истёк"},
	{domain.ErrRoomInactive, http.StatusUnprocessableEntity, "комната недоступна для бронирования"},
}

const msgConflict = "интервал пересекается с другими бронированиями"

// RespondDomainError отвечает на нарушение правил бронирования
// Возвращает false, если err не относится к domain ошибкам
func RespondDomainError(w http.ResponseWriter, err error) bool {
	if errors.Is(err, domain.ErrConflictDetected) {
		bookings, _ := domain.ConflictingBookings(err)
		RespondConflict(w, msgConflict, bookings)
		return true
	}

	for _, e := range domainErrors {
		if errors.Is(err, e.err) {
			RespondError(w, e.status, e.message+": "+err.Error())
			return true
		}
	}

	return false
}
