package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
)

// ErrTxRequired is returned by repository writes called without a transaction.
var ErrTxRequired = errors.New("postgres: operation requires a transaction")

// TxWrapper adapts sqlx.Tx to transaction.Tx.
type TxWrapper struct {
	*sqlx.Tx
}

func (t *TxWrapper) Commit() error {
	return t.Tx.Commit()
}

func (t *TxWrapper) Rollback() error {
	return t.Tx.Rollback()
}

// TxManager opens transactions on a sqlx.DB.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a transaction at the default isolation level. Writers
// serialise on the property row lock, so READ COMMITTED is sufficient.
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TxWrapper{Tx: tx}, nil
}

var _ transaction.Manager = (*TxManager)(nil)

// UnwrapTx returns the sqlx.Tx behind tx, or nil when tx was not opened by TxManager.
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if wrapper, ok := tx.(*TxWrapper); ok {
		return wrapper.Tx
	}
	return nil
}

// requireTx is UnwrapTx for writes.
func requireTx(tx transaction.Tx) (*sqlx.Tx, error) {
	if sqlTx := UnwrapTx(tx); sqlTx != nil {
		return sqlTx, nil
	}
	return nil, ErrTxRequired
}

// queryer picks the transaction when there is one, the pool otherwise.
func queryer(db *sqlx.DB, tx transaction.Tx) sqlx.ExtContext {
	if sqlTx := UnwrapTx(tx); sqlTx != nil {
		return sqlTx
	}
	return db
}
