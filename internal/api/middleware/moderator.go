package middleware

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotModerator  = "действие доступно только модератору"
)

// RequireModerator пропускает запрос только модераторов
// Должен стоять после Auth
func RequireModerator(directory ModeratorChecker, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			isModerator, err := directory.IsModerator(r.Context(), userID)
			if err != nil {
				logger.Error("%s %s - Failed to resolve role: user_id=%d, error=%v", r.Method, r.URL.Path, userID, err)
				handlers.RespondInternalError(w)
				return
			}
			if !isModerator {
				logger.Warn("%s %s - Moderator role required: user_id=%d", r.Method, r.URL.Path, userID)
				handlers.RespondForbidden(w, msgNotModerator)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
