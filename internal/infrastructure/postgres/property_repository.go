package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
)

type propertyRow struct {
	ID            string          `db:"id"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	IsActive      bool            `db:"is_active"`
}

func (r *propertyRow) toEntity() *property.Property {
	return &property.Property{ID: r.ID, BasePricePerNight: r.PricePerNight, IsActive: r.IsActive}
}

const propertySelect = `SELECT id, price_per_night, is_active FROM properties WHERE id = $1`

type PropertyRepository struct{ db *sqlx.DB }

func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*property.Property, error) {
	return r.get(ctx, r.db, propertySelect, id)
}

func (r *PropertyRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*property.Property, error) {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, sqlTx, propertySelect+` FOR UPDATE`, id)
}

func (r *PropertyRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*property.Property, error) {
	var row propertyRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, property.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PropertyRepository) SetActive(ctx context.Context, tx transaction.Tx, id string, active bool) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	result, err := sqlTx.ExecContext(ctx, `UPDATE properties SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		if isMalformedID(err) {
			return property.ErrPropertyNotFound
		}
		return fmt.Errorf("update property: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

var _ property.Repository = (*PropertyRepository)(nil)
