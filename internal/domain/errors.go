package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Time window violations
var (
	ErrInvalidInterval      = errors.New("booking: end time must be after start time")
	ErrPastDate             = errors.New("booking: start time is in the past")
	ErrAdvanceLimitExceeded = errors.New("booking: start time is too far in the future")
	ErrDurationOutOfRange   = errors.New("booking: duration is out of the allowed range")
	ErrOutsideWorkingHours  = errors.New("booking: interval is outside working hours")
)

// Lifecycle violations
var (
	ErrConflictDetected         = errors.New("booking: interval conflicts with existing bookings")
	ErrInvalidTransition        = errors.New("booking: transition is not allowed from the current status")
	ErrMissingRejectionComment  = errors.New("booking: rejection requires a comment")
	ErrCancellationWindowClosed = errors.New("booking: cancellation deadline has passed")
	ErrRoomInactive             = errors.New("booking: room is not active")
	ErrNotFound                 = errors.New("booking: not found")
	ErrCapacityExceeded         = errors.New("booking: participants exceed room capacity")
	ErrRoomHasFutureBookings    = errors.New("room: has future approved bookings")
	ErrAccessDenied             = errors.New("booking: access denied")
)

// ConflictError carries the bookings that overlap the requested interval
type ConflictError struct {
	Bookings []*Booking
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Bookings))
	for _, b := range e.Bookings {
		ids = append(ids, fmt.Sprintf("%d", b.ID))
	}
	return fmt.Sprintf("%s: [%s]", ErrConflictDetected.Error(), strings.Join(ids, ", "))
}

// Unwrap allows errors.Is(err, ErrConflictDetected)
func (e *ConflictError) Unwrap() error {
	return ErrConflictDetected
}

// NewConflictError creates a conflict error for the given bookings
func NewConflictError(bookings []*Booking) *ConflictError {
	return &ConflictError{Bookings: bookings}
}

// ConflictingBookings extracts the conflicting bookings from err, if any
func ConflictingBookings(err error) ([]*Booking, bool) {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr.Bookings, true
	}
	return nil, false
}

var businessErrors = []error{
	ErrInvalidInterval,
	ErrPastDate,
	ErrAdvanceLimitExceeded,
	ErrDurationOutOfRange,
	ErrOutsideWorkingHours,
	ErrConflictDetected,
	ErrInvalidTransition,
	ErrMissingRejectionComment,
	ErrCancellationWindowClosed,
	ErrRoomInactive,
	ErrNotFound,
	ErrCapacityExceeded,
	ErrRoomHasFutureBookings,
	ErrAccessDenied,
}

// IsBusinessError returns true if err is one of the domain rule violations above
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
