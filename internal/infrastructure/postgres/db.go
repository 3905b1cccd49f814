package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/basilmuhammad91/property-booking-platform/internal/config"
)

// NewConnection opens the connection pool described by cfg.
func NewConnection(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	return db, nil
}

// Ping checks the connection.
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

// PostgreSQL error codes the repositories translate.
const (
	codeForeignKeyViolation = "23503"
	codeInvalidTextRepr     = "22P02"
)

func pqCode(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	return ""
}

// isMalformedID reports whether the database rejected an id that is not a UUID.
// Such ids cannot match a row, so callers treat them as not found.
func isMalformedID(err error) bool {
	return pqCode(err) == codeInvalidTextRepr
}
