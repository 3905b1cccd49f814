package booking

import "time"

// DefaultPageSize applies when a query asks for no limit.
const DefaultPageSize = 10

// Filter selects bookings for listing. Zero-valued fields do not constrain.
type Filter struct {
	Status     Status
	PropertyID string
	UserID     string
	// StartFrom keeps bookings starting on or after this day.
	StartFrom *time.Time
	// EndUntil keeps bookings ending on or before this day.
	EndUntil *time.Time
	// OldestFirst flips the default newest-first order.
	OldestFirst bool
	Limit       int
	Offset      int
}

// Normalized returns a copy with paging clamped to sane values.
func (f Filter) Normalized() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
