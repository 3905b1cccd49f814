package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
	redisinfra "github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/redis"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/logger"
)

// PropertyService covers the property operations the booking engine owns.
type PropertyService struct {
	txManager    transaction.Manager
	propertyRepo property.Repository
	bookingRepo  booking.Repository
	cache        redisinfra.AvailabilityCacheInterface
	locker       propertyLocker
	opts         options
}

// NewPropertyService creates a PropertyService. lockManager and cache may be nil.
func NewPropertyService(
	txManager transaction.Manager,
	propertyRepo property.Repository,
	bookingRepo booking.Repository,
	lockManager redisinfra.LockManagerInterface,
	cache redisinfra.AvailabilityCacheInterface,
	opts ...Option,
) *PropertyService {
	o := buildOptions(opts)
	return &PropertyService{
		txManager:    txManager,
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		cache:        cache,
		locker:       propertyLocker{manager: lockManager, policy: o.lockPolicy, metrics: o.metrics},
		opts:         o,
	}
}

// GetProperty returns a property.
func (s *PropertyService) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

// DeactivateProperty takes a property off the market: it stops being
// available and every pending request on it is rejected. Confirmed bookings
// are kept. Returns how many bookings were rejected.
func (s *PropertyService) DeactivateProperty(ctx context.Context, id string) (int, error) {
	release, err := s.locker.acquire(ctx, id)
	if err != nil {
		return 0, err
	}
	defer release()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.propertyRepo.GetForUpdate(ctx, tx, id); err != nil {
		return 0, err
	}
	if err := s.propertyRepo.SetActive(ctx, tx, id, false); err != nil {
		return 0, err
	}
	rejected, err := s.bookingRepo.RejectPendingByProperty(ctx, tx, id, s.opts.now())
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logger.Warn("availability cache invalidation failed", logger.PropertyID(id), zap.Error(err))
		}
	}
	logger.Info("property deactivated", logger.PropertyID(id), zap.Int("rejected_bookings", rejected))
	return rejected, nil
}
