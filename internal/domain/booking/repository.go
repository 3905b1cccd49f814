package booking

import (
	"context"
	"time"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
)

// Repository persists bookings.
type Repository interface {
	// Create inserts a booking and fills its ID (transaction required).
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID reads a booking without locking it.
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetForUpdate reads a booking and holds its row lock until tx ends.
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Booking, error)

	// Update writes status, cancelled_at and updated_at (transaction required).
	Update(ctx context.Context, tx transaction.Tx, b *Booking) error

	// ListActiveOverlapping returns pending and confirmed bookings of the
	// property overlapping r. tx may be nil for a plain read.
	ListActiveOverlapping(ctx context.Context, tx transaction.Tx, propertyID string, r daterange.Range) ([]*Booking, error)

	// List returns one page of bookings matching f.
	List(ctx context.Context, f Filter) ([]*Booking, error)

	// Count returns how many bookings match f, ignoring paging.
	Count(ctx context.Context, f Filter) (int, error)

	// RejectPendingByProperty rejects every pending booking of a property and
	// returns how many rows changed (transaction required).
	RejectPendingByProperty(ctx context.Context, tx transaction.Tx, propertyID string, now time.Time) (int, error)
}
