package property

import (
	"context"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
)

// Repository looks up properties for the booking engine.
type Repository interface {
	// GetByID reads a property without locking it.
	GetByID(ctx context.Context, id string) (*Property, error)

	// GetForUpdate reads a property and holds its row lock until tx ends.
	// Every writer of a property's bookings or availability goes through this lock.
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Property, error)

	// SetActive flips the active flag (transaction required).
	SetActive(ctx context.Context, tx transaction.Tx, id string, active bool) error
}
