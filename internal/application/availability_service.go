package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
	redisinfra "github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/redis"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/logger"
)

// Quote is the price of a stay.
type Quote struct {
	Nights      int
	TotalAmount decimal.Decimal
}

// BlockInput is one admin availability statement.
type BlockInput struct {
	StartDate     time.Time
	EndDate       time.Time
	IsAvailable   bool
	PriceOverride decimal.NullDecimal
}

// AvailabilityService answers availability and price questions and records
// admin availability blocks.
type AvailabilityService struct {
	txManager    transaction.Manager
	propertyRepo property.Repository
	blockRepo    availability.Repository
	bookingRepo  booking.Repository
	cache        redisinfra.AvailabilityCacheInterface
	locker       propertyLocker
	opts         options
}

// NewAvailabilityService creates an AvailabilityService. lockManager and cache may be nil.
func NewAvailabilityService(
	txManager transaction.Manager,
	propertyRepo property.Repository,
	blockRepo availability.Repository,
	bookingRepo booking.Repository,
	lockManager redisinfra.LockManagerInterface,
	cache redisinfra.AvailabilityCacheInterface,
	opts ...Option,
) *AvailabilityService {
	o := buildOptions(opts)
	return &AvailabilityService{
		txManager:    txManager,
		propertyRepo: propertyRepo,
		blockRepo:    blockRepo,
		bookingRepo:  bookingRepo,
		cache:        cache,
		locker:       propertyLocker{manager: lockManager, policy: o.lockPolicy, metrics: o.metrics},
		opts:         o,
	}
}

// CheckAvailability reports whether every night of [start, end) is open and
// no active booking overlaps the stay.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, propertyID string, start, end time.Time) (bool, error) {
	r, err := s.validateStay(start, end)
	if err != nil {
		return false, err
	}

	prop, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		s.opts.metrics.RecordAvailabilityCheck("error")
		return false, err
	}

	cal, err := s.loadCalendar(ctx, nil, prop.ID)
	if err != nil {
		s.opts.metrics.RecordAvailabilityCheck("error")
		return false, err
	}
	ok, err := s.isBookable(ctx, nil, prop, cal, r, "", false)
	if err != nil {
		s.opts.metrics.RecordAvailabilityCheck("error")
		return false, err
	}
	if ok {
		s.opts.metrics.RecordAvailabilityCheck("available")
	} else {
		s.opts.metrics.RecordAvailabilityCheck("unavailable")
	}
	return ok, nil
}

// Quote prices [start, end) without checking availability.
func (s *AvailabilityService) Quote(ctx context.Context, propertyID string, start, end time.Time) (*Quote, error) {
	if _, err := daterange.NightsBetween(start, end); err != nil {
		return nil, err
	}
	prop, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.cachedBlocks(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return priceStay(availability.NewCalendar(propertyID, blocks), prop.BasePricePerNight, start, end), nil
}

// SetAvailability upserts every input block in one transaction under the
// property lock. Either all blocks are stored or none.
func (s *AvailabilityService) SetAvailability(ctx context.Context, propertyID string, inputs []BlockInput) ([]*availability.Block, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no availability blocks given", daterange.ErrInvalidRange)
	}
	for _, in := range inputs {
		b := availability.NewBlock(propertyID, in.StartDate, in.EndDate, in.IsAvailable, in.PriceOverride)
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}

	release, err := s.locker.acquire(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.propertyRepo.GetForUpdate(ctx, tx, propertyID); err != nil {
		return nil, err
	}

	existing, err := s.blockRepo.ListByProperty(ctx, tx, propertyID)
	if err != nil {
		return nil, err
	}
	cal := availability.NewCalendar(propertyID, existing)
	now := s.opts.now()

	saved := make([]*availability.Block, 0, len(inputs))
	for _, in := range inputs {
		b, err := cal.Upsert(in.StartDate, in.EndDate, in.IsAvailable, in.PriceOverride, now)
		if err != nil {
			return nil, err
		}
		if err := s.blockRepo.Upsert(ctx, tx, b); err != nil {
			return nil, err
		}
		saved = append(saved, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.invalidate(ctx, propertyID)
	logger.Info("availability updated", logger.PropertyID(propertyID), zap.Int("blocks", len(saved)))
	return saved, nil
}

// GetAvailability lists a property's blocks ordered by start date. Blocks
// ending before from or starting after to are left out; nil bounds are open.
func (s *AvailabilityService) GetAvailability(ctx context.Context, propertyID string, from, to *time.Time) ([]*availability.Block, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, daterange.ErrInvalidRange
	}
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	blocks, err := s.cachedBlocks(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return availability.NewCalendar(propertyID, blocks).BlocksWithin(from, to), nil
}

// validateStay rejects empty, inverted and past stays.
func (s *AvailabilityService) validateStay(start, end time.Time) (daterange.Range, error) {
	if _, err := daterange.NightsBetween(start, end); err != nil {
		return daterange.Range{}, err
	}
	r := daterange.New(start, end)
	if r.Start.Before(s.today()) {
		return daterange.Range{}, daterange.ErrDateInPast
	}
	return r, nil
}

func (s *AvailabilityService) today() time.Time {
	return daterange.Normalize(s.opts.now())
}

// loadCalendar reads every block of a property. tx may be nil.
func (s *AvailabilityService) loadCalendar(ctx context.Context, tx transaction.Tx, propertyID string) (*availability.Calendar, error) {
	blocks, err := s.blockRepo.ListByProperty(ctx, tx, propertyID)
	if err != nil {
		return nil, err
	}
	return availability.NewCalendar(propertyID, blocks), nil
}

// isBookable evaluates r against cal and the property's ledger. With
// confirmedOnly set only confirmed bookings count as conflicts; excludeID
// skips the booking being re-checked.
func (s *AvailabilityService) isBookable(ctx context.Context, tx transaction.Tx, prop *property.Property, cal *availability.Calendar, r daterange.Range, excludeID string, confirmedOnly bool) (bool, error) {
	if !prop.IsBookable() {
		return false, nil
	}
	for night := range daterange.Nights(r.Start, r.End) {
		if cal.IsBlockedOn(night) {
			return false, nil
		}
	}

	active, err := s.bookingRepo.ListActiveOverlapping(ctx, tx, prop.ID, r)
	if err != nil {
		return false, err
	}
	ledger := booking.NewLedger(active)
	if confirmedOnly {
		return !ledger.HasConfirmedConflict(r, excludeID), nil
	}
	return !ledger.HasConflict(r, excludeID), nil
}

func priceStay(cal *availability.Calendar, base decimal.Decimal, start, end time.Time) *Quote {
	q := &Quote{TotalAmount: decimal.Zero}
	for night := range daterange.Nights(start, end) {
		q.Nights++
		q.TotalAmount = q.TotalAmount.Add(cal.PriceOn(night, base))
	}
	return q
}

// cachedBlocks reads blocks through the cache. Callers check the property exists.
// A miss is filled under the generation it reported, so a write that lands
// between the read and the fill leaves the cache empty.
func (s *AvailabilityService) cachedBlocks(ctx context.Context, propertyID string) ([]*availability.Block, error) {
	var gen int64
	fill := false
	if s.cache != nil {
		blocks, g, err := s.cache.GetBlocks(ctx, propertyID)
		switch {
		case err == nil:
			logger.Debug("availability cache hit", logger.PropertyID(propertyID))
			return blocks, nil
		case errors.Is(err, redisinfra.ErrCacheMiss):
			gen, fill = g, true
		default:
			logger.Warn("availability cache read failed", logger.PropertyID(propertyID), zap.Error(err))
		}
	}

	blocks, err := s.blockRepo.ListByProperty(ctx, nil, propertyID)
	if err != nil {
		return nil, err
	}

	if fill {
		if err := s.cache.SetBlocks(ctx, propertyID, gen, blocks, s.opts.cacheTTL); err != nil {
			if errors.Is(err, redisinfra.ErrCacheStale) {
				logger.Debug("availability cache fill skipped", logger.PropertyID(propertyID))
			} else {
				logger.Warn("availability cache write failed", logger.PropertyID(propertyID), zap.Error(err))
			}
		}
	}
	return blocks, nil
}

func (s *AvailabilityService) invalidate(ctx context.Context, propertyID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, propertyID); err != nil {
		logger.Warn("availability cache invalidation failed", logger.PropertyID(propertyID), zap.Error(err))
	}
}
