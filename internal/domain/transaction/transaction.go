package transaction

import "context"

// Tx is a unit of work. Domain packages depend on this instead of sqlx.
type Tx interface {
	Commit() error
	// Rollback after a successful Commit is a no-op returning sql.ErrTxDone,
	// so callers may always defer it.
	Rollback() error
}

// Manager opens transactions. Implementations must provide at least
// read-committed isolation; row locks taken inside a Tx last until it ends.
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}
