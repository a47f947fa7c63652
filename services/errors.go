package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the room lifecycle. Controllers map each one to a
// 4xx naming the violated precondition; none of them is retried
// automatically — a failed transition is a business outcome, not a
// transient fault.
var (
	ErrRoomNotFound         = errors.New("room_not_found")
	ErrRoomNotAvailable     = errors.New("room_not_available")
	ErrInvalidTransition    = errors.New("invalid_transition")
	ErrResidentMismatch     = errors.New("resident_mismatch")
	ErrRoomOccupied         = errors.New("room_occupied")
	ErrRoomHasActiveBooking = errors.New("room_has_active_booking")

	ErrBookingNotFound  = errors.New("booking_not_found")
	ErrBookingCancelled = errors.New("booking_cancelled")
	ErrDormNotFound     = errors.New("dorm_not_found")
)

// ValidationError marks malformed input (missing fields, unknown patch
// keys, bad enum values).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err (or anything it wraps) is a
// ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
