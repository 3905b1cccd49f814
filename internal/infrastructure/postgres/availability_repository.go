package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
)

type blockRow struct {
	ID          string         `db:"id"`
	PropertyID  string         `db:"property_id"`
	StartDate   time.Time      `db:"start_date"`
	EndDate     time.Time      `db:"end_date"`
	Price       sql.NullString `db:"price"`
	IsAvailable bool           `db:"is_available"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// toEntity reads price as text so an unreadable override degrades to the base price.
func (r *blockRow) toEntity() *availability.Block {
	b := &availability.Block{
		ID:          r.ID,
		PropertyID:  r.PropertyID,
		StartDate:   daterange.Normalize(r.StartDate),
		EndDate:     daterange.Normalize(r.EndDate),
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Price.Valid {
		b.PriceOverride = availability.ParsePrice(r.Price.String)
	}
	return b
}

type AvailabilityRepository struct{ db *sqlx.DB }

func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) ListByProperty(ctx context.Context, tx transaction.Tx, propertyID string) ([]*availability.Block, error) {
	var rows []blockRow
	query := `SELECT id, property_id, start_date, end_date, price, is_available, created_at, updated_at
		FROM property_availability WHERE property_id = $1 ORDER BY start_date, end_date`
	if err := sqlx.SelectContext(ctx, queryer(r.db, tx), &rows, query, propertyID); err != nil {
		if isMalformedID(err) {
			return []*availability.Block{}, nil
		}
		return nil, fmt.Errorf("list availability: %w", err)
	}
	blocks := make([]*availability.Block, len(rows))
	for i := range rows {
		blocks[i] = rows[i].toEntity()
	}
	return blocks, nil
}

// Upsert relies on the (property_id, start_date, end_date) unique key.
func (r *AvailabilityRepository) Upsert(ctx context.Context, tx transaction.Tx, b *availability.Block) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO property_availability (property_id, start_date, end_date, price, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (property_id, start_date, end_date)
		DO UPDATE SET price = EXCLUDED.price, is_available = EXCLUDED.is_available, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`
	err = sqlTx.QueryRowxContext(ctx, query,
		b.PropertyID, b.StartDate, b.EndDate, b.PriceOverride, b.IsAvailable, b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

var _ availability.Repository = (*AvailabilityRepository)(nil)
