package availability

import (
	"context"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
)

// Repository persists availability blocks.
type Repository interface {
	// ListByProperty returns every block of a property ordered by start date.
	// tx may be nil for a plain read.
	ListByProperty(ctx context.Context, tx transaction.Tx, propertyID string) ([]*Block, error)

	// Upsert inserts the block or, when a block with the same property and
	// exact start/end already exists, overwrites its availability and price.
	// ID and timestamps are filled from the stored row (transaction required).
	Upsert(ctx context.Context, tx transaction.Tx, block *Block) error
}
