package reject_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.ModeratorID <= 0 {
		return fmt.Errorf("%w: moderatorID must be positive", ErrInvalidInput)
	}

	req.Comment = strings.TrimSpace(req.Comment)
	if utf8.RuneCountInString(req.Comment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment is longer than %d characters", ErrInvalidInput, domain.MaxCommentLength)
	}

	return nil
}

// validateComment проверяется после статуса: отклонить можно только ожидающую заявку
func validateComment(comment string) error {
	if comment == "" {
		return domain.ErrMissingRejectionComment
	}
	return nil
}
