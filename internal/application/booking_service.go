package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
	redisinfra "github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/redis"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/logger"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/metrics"
)

// BookingNotifier is told about confirmations after they commit.
// Implementations must not block the caller.
type BookingNotifier interface {
	NotifyBookingConfirmed(ctx context.Context, b *booking.Booking)
}

// CreateBookingInput is a guest's stay request.
type CreateBookingInput struct {
	PropertyID string
	UserID     string
	StartDate  time.Time
	EndDate    time.Time
}

// BookingService drives the booking lifecycle.
type BookingService struct {
	txManager    transaction.Manager
	propertyRepo property.Repository
	bookingRepo  booking.Repository
	availability *AvailabilityService
	notifier     BookingNotifier
	locker       propertyLocker
	opts         options
}

// NewBookingService creates a BookingService. lockManager and notifier may be nil.
func NewBookingService(
	txManager transaction.Manager,
	propertyRepo property.Repository,
	bookingRepo booking.Repository,
	availabilityService *AvailabilityService,
	lockManager redisinfra.LockManagerInterface,
	notifier BookingNotifier,
	opts ...Option,
) *BookingService {
	o := buildOptions(opts)
	return &BookingService{
		txManager:    txManager,
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		availability: availabilityService,
		notifier:     notifier,
		locker:       propertyLocker{manager: lockManager, policy: o.lockPolicy, metrics: o.metrics},
		opts:         o,
	}
}

// CreateBooking prices the stay and stores it as pending if the property is
// free for the whole range.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (b *booking.Booking, err error) {
	defer func() { s.record("create", err) }()

	if input.UserID == "" {
		return nil, booking.ErrUserIDRequired
	}
	r, err := s.availability.validateStay(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.acquire(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prop, err := s.propertyRepo.GetForUpdate(ctx, tx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	cal, err := s.availability.loadCalendar(ctx, tx, prop.ID)
	if err != nil {
		return nil, err
	}
	ok, err := s.availability.isBookable(ctx, tx, prop, cal, r, "", false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, booking.ErrBookingConflict
	}

	quote := priceStay(cal, prop.BasePricePerNight, r.Start, r.End)
	b, err = booking.NewBooking(prop.ID, input.UserID, r.Start, r.End, quote.TotalAmount, s.opts.now())
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	logger.Info("booking created",
		logger.BookingID(b.ID), logger.PropertyID(b.PropertyID), logger.UserID(b.UserID),
		logger.DateRange(r.String()), zap.String("total_amount", b.TotalAmount.StringFixed(2)))
	return b, nil
}

// ConfirmBooking confirms a pending booking after re-checking that no
// confirmed booking or blocked day has claimed its dates meanwhile.
func (s *BookingService) ConfirmBooking(ctx context.Context, id string) (b *booking.Booking, err error) {
	defer func() { s.record("confirm", err) }()

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.acquire(ctx, current.PropertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err = s.transition(ctx, current.PropertyID, id, func(tx transaction.Tx, prop *property.Property, b *booking.Booking) error {
		if !b.IsPending() {
			return booking.ErrNotPending
		}
		cal, err := s.availability.loadCalendar(ctx, tx, prop.ID)
		if err != nil {
			return err
		}
		ok, err := s.availability.isBookable(ctx, tx, prop, cal, b.Range(), b.ID, true)
		if err != nil {
			return err
		}
		if !ok {
			return booking.ErrBookingConflict
		}
		return b.Confirm(s.opts.now())
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyBookingConfirmed(ctx, b)
	}
	return b, nil
}

// RejectBooking rejects a pending booking.
func (s *BookingService) RejectBooking(ctx context.Context, id string) (b *booking.Booking, err error) {
	defer func() { s.record("reject", err) }()

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, current.PropertyID, id, func(_ transaction.Tx, _ *property.Property, b *booking.Booking) error {
		return b.Reject(s.opts.now())
	})
}

// CancelBooking cancels a pending or confirmed booking for its owner or an admin.
func (s *BookingService) CancelBooking(ctx context.Context, id string, actor booking.Actor) (b *booking.Booking, err error) {
	defer func() { s.record("cancel", err) }()

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, current.PropertyID, id, func(_ transaction.Tx, _ *property.Property, b *booking.Booking) error {
		return b.Cancel(actor, s.opts.now())
	})
}

// transition re-reads the booking under the property lock and then its own
// row lock, applies apply and persists the result in one transaction.
func (s *BookingService) transition(
	ctx context.Context,
	propertyID, id string,
	apply func(tx transaction.Tx, prop *property.Property, b *booking.Booking) error,
) (*booking.Booking, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prop, err := s.propertyRepo.GetForUpdate(ctx, tx, propertyID)
	if err != nil {
		return nil, err
	}
	b, err := s.bookingRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	from := b.Status

	if err := apply(tx, prop, b); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	logger.Info("booking status changed",
		logger.BookingID(b.ID), logger.PropertyID(b.PropertyID),
		zap.String("from", from.String()), logger.Status(b.Status.String()))
	return b, nil
}

// GetBooking returns one booking.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// GetUserBookings lists a user's bookings, newest first.
func (s *BookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	return s.bookingRepo.List(ctx, booking.Filter{UserID: userID, Limit: limit, Offset: offset}.Normalized())
}

// GetPropertyBookings lists a property's bookings, newest first.
func (s *BookingService) GetPropertyBookings(ctx context.Context, propertyID string, limit, offset int) ([]*booking.Booking, error) {
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.bookingRepo.List(ctx, booking.Filter{PropertyID: propertyID, Limit: limit, Offset: offset}.Normalized())
}

// GetPendingBookings lists bookings awaiting a decision, oldest first.
func (s *BookingService) GetPendingBookings(ctx context.Context, limit, offset int) ([]*booking.Booking, error) {
	f := booking.Filter{Status: booking.StatusPending, OldestFirst: true, Limit: limit, Offset: offset}
	return s.bookingRepo.List(ctx, f.Normalized())
}

// ListBookings returns one page of bookings matching f and the total match count.
func (s *BookingService) ListBookings(ctx context.Context, f booking.Filter) ([]*booking.Booking, int, error) {
	f = f.Normalized()
	items, err := s.bookingRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bookingRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *BookingService) record(action string, err error) {
	s.opts.metrics.RecordBookingOperation(action, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, errPropertyBusy):
		return metrics.OutcomeLockFailed
	case errors.Is(err, booking.ErrBookingConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, booking.ErrInvalidTransition):
		return metrics.OutcomeInvalidTransition
	case errors.Is(err, daterange.ErrInvalidRange):
		return metrics.OutcomeInvalidRange
	case errors.Is(err, booking.ErrBookingNotFound), errors.Is(err, property.ErrPropertyNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
