package booking

import "github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"

// Ledger is the set of bookings known for one property.
type Ledger struct {
	bookings []*Booking
}

// NewLedger wraps bookings loaded for a property. Inert bookings may be
// included; they are ignored.
func NewLedger(bookings []*Booking) *Ledger {
	return &Ledger{bookings: bookings}
}

// HasConflict reports whether an active booking other than excludeID
// overlaps r. A checkout day equal to another check-in day counts.
func (l *Ledger) HasConflict(r daterange.Range, excludeID string) bool {
	return l.conflicts(r, excludeID, Status.IsActive)
}

// HasConfirmedConflict is HasConflict restricted to confirmed bookings.
func (l *Ledger) HasConfirmedConflict(r daterange.Range, excludeID string) bool {
	return l.conflicts(r, excludeID, func(s Status) bool { return s == StatusConfirmed })
}

func (l *Ledger) conflicts(r daterange.Range, excludeID string, counts func(Status) bool) bool {
	for _, b := range l.bookings {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if counts(b.Status) && b.Range().Overlaps(r) {
			return true
		}
	}
	return false
}
