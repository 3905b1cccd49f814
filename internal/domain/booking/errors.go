package booking

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingConflict    = errors.New("property is not available for the selected dates")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrNotPending         = fmt.Errorf("%w: booking is not pending", ErrInvalidTransition)
	ErrNotCancellable     = fmt.Errorf("%w: booking cannot be cancelled", ErrInvalidTransition)
	ErrCancelNotAllowed   = fmt.Errorf("%w: not allowed to cancel this booking", ErrInvalidTransition)
	ErrPropertyIDRequired = errors.New("property id is required")
	ErrUserIDRequired     = errors.New("user id is required")
)
