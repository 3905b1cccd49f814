package availability

import "errors"

var (
	ErrInvalidPrice       = errors.New("price override must be a non-negative amount below 100000000 with at most two decimals")
	ErrPropertyIDRequired = errors.New("property id is required")
)
