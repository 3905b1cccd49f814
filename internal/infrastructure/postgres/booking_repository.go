package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/user"
)

type bookingRow struct {
	ID          string          `db:"id"`
	PropertyID  string          `db:"property_id"`
	UserID      string          `db:"user_id"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	Nights      int             `db:"nights"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Status      string          `db:"status"`
	CancelledAt *time.Time      `db:"cancelled_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID: r.ID, PropertyID: r.PropertyID, UserID: r.UserID,
		StartDate: daterange.Normalize(r.StartDate), EndDate: daterange.Normalize(r.EndDate),
		Nights: r.Nights, TotalAmount: r.TotalAmount, Status: booking.Status(r.Status),
		CancelledAt: r.CancelledAt, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const bookingColumns = `id, property_id, user_id, start_date, end_date, nights, total_amount, status, cancelled_at, created_at, updated_at`

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO bookings (property_id, user_id, start_date, end_date, nights, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err = sqlTx.QueryRowContext(ctx, query,
		b.PropertyID, b.UserID, b.StartDate, b.EndDate, b.Nights, b.TotalAmount,
		b.Status.String(), b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return translateCreateError(err)
	}
	return nil
}

// translateCreateError maps foreign key failures onto the missing aggregate.
func translateCreateError(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && string(pgErr.Code) == codeForeignKeyViolation {
		if strings.Contains(pgErr.Constraint, "user") {
			return fmt.Errorf("create booking: %w", user.ErrUserNotFound)
		}
		return fmt.Errorf("create booking: %w", property.ErrPropertyNotFound)
	}
	return fmt.Errorf("create booking: %w", err)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	return r.get(ctx, r.db, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, sqlTx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*booking.Booking, error) {
	var row bookingRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BookingRepository) Update(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	query := `UPDATE bookings SET status = $1, cancelled_at = $2, updated_at = $3 WHERE id = $4`
	result, err := sqlTx.ExecContext(ctx, query, b.Status.String(), b.CancelledAt, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// ListActiveOverlapping uses the inclusive overlap test: a stay that checks in
// on another stay's checkout day overlaps it.
func (r *BookingRepository) ListActiveOverlapping(ctx context.Context, tx transaction.Tx, propertyID string, rg daterange.Range) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE property_id = $1 AND status IN ($2, $3) AND start_date <= $4 AND end_date >= $5
		ORDER BY start_date`
	var rows []bookingRow
	err := sqlx.SelectContext(ctx, queryer(r.db, tx), &rows, query,
		propertyID, booking.StatusPending.String(), booking.StatusConfirmed.String(), rg.End, rg.Start)
	if err != nil {
		if isMalformedID(err) {
			return []*booking.Booking{}, nil
		}
		return nil, fmt.Errorf("list overlapping bookings: %w", err)
	}
	return toBookings(rows), nil
}

func (r *BookingRepository) List(ctx context.Context, f booking.Filter) ([]*booking.Booking, error) {
	f = f.Normalized()
	where, args := buildBookingFilter(f)
	order := "DESC"
	if f.OldestFirst {
		order = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY created_at %s, id %s LIMIT $%d OFFSET $%d`,
		bookingColumns, where, order, order, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isMalformedID(err) {
			return []*booking.Booking{}, nil
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return toBookings(rows), nil
}

func (r *BookingRepository) Count(ctx context.Context, f booking.Filter) (int, error) {
	where, args := buildBookingFilter(f)
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bookings`+where, args...); err != nil {
		if isMalformedID(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *BookingRepository) RejectPendingByProperty(ctx context.Context, tx transaction.Tx, propertyID string, now time.Time) (int, error) {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return 0, err
	}
	result, err := sqlTx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE property_id = $3 AND status = $4`,
		booking.StatusRejected.String(), now, propertyID, booking.StatusPending.String())
	if err != nil {
		return 0, fmt.Errorf("reject pending bookings: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reject pending bookings: %w", err)
	}
	return int(rows), nil
}

// buildBookingFilter renders the WHERE clause for f with positional arguments.
func buildBookingFilter(f booking.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status.String())
	}
	if f.PropertyID != "" {
		add("property_id = $%d", f.PropertyID)
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.StartFrom != nil {
		add("start_date >= $%d", daterange.Normalize(*f.StartFrom))
	}
	if f.EndUntil != nil {
		add("end_date <= $%d", daterange.Normalize(*f.EndUntil))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func toBookings(rows []bookingRow) []*booking.Booking {
	out := make([]*booking.Booking, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out
}

var _ booking.Repository = (*BookingRepository)(nil)
