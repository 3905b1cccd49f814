package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
)

// Actor is whoever drives a lifecycle operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// Booking is one stay request for a property.
type Booking struct {
	ID          string
	PropertyID  string
	UserID      string
	StartDate   time.Time
	EndDate     time.Time
	Nights      int
	TotalAmount decimal.Decimal
	Status      Status
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBooking creates a pending booking. total is the priced sum of the
// nights in [start, end).
func NewBooking(propertyID, userID string, start, end time.Time, total decimal.Decimal, now time.Time) (*Booking, error) {
	nights, err := daterange.NightsBetween(start, end)
	if err != nil {
		return nil, err
	}
	b := &Booking{
		PropertyID:  propertyID,
		UserID:      userID,
		StartDate:   daterange.Normalize(start),
		EndDate:     daterange.Normalize(end),
		Nights:      nights,
		TotalAmount: total,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Range is the inclusive span used for overlap checks.
func (b *Booking) Range() daterange.Range {
	return daterange.New(b.StartDate, b.EndDate)
}

// IsActive reports whether the booking still occupies its dates.
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// IsPending reports whether the booking awaits an admin decision.
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// CanBeCancelled reports whether the status still allows a cancel.
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// IsOwnedBy reports whether userID made the booking.
func (b *Booking) IsOwnedBy(userID string) bool {
	return userID != "" && b.UserID == userID
}

// Confirm moves a pending booking to confirmed.
func (b *Booking) Confirm(now time.Time) error {
	if !b.IsPending() {
		return ErrNotPending
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now
	return nil
}

// Reject moves a pending booking to rejected.
func (b *Booking) Reject(now time.Time) error {
	if !b.IsPending() {
		return ErrNotPending
	}
	b.Status = StatusRejected
	b.UpdatedAt = now
	return nil
}

// Cancel cancels the booking on behalf of actor, who must own it or be an admin.
func (b *Booking) Cancel(actor Actor, now time.Time) error {
	if !b.CanBeCancelled() {
		return ErrNotCancellable
	}
	if !actor.IsAdmin && !b.IsOwnedBy(actor.UserID) {
		return ErrCancelNotAllowed
	}
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// Validate checks the stored invariants of a booking.
func (b *Booking) Validate() error {
	if b.PropertyID == "" {
		return ErrPropertyIDRequired
	}
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	nights, err := daterange.NightsBetween(b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	if nights != b.Nights {
		return daterange.ErrInvalidRange
	}
	return nil
}
