package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	redisinfra "github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/redis"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/logger"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/metrics"
)

// errPropertyBusy is returned when another request holds the property lock.
var errPropertyBusy = fmt.Errorf("%w: property is being updated by another request", booking.ErrBookingConflict)

// propertyLocker fronts property writes with the optional Redis lock. The
// database row lock taken inside each transaction remains the authority; this
// only keeps contending requests off the database.
type propertyLocker struct {
	manager redisinfra.LockManagerInterface
	policy  LockPolicy
	metrics *metrics.Metrics
}

// acquire returns a release func. With no lock manager it is a no-op.
func (l propertyLocker) acquire(ctx context.Context, propertyID string) (func(), error) {
	if l.manager == nil {
		return func() {}, nil
	}

	start := time.Now()
	lock, err := l.manager.AcquireLockWithRetry(ctx, redisinfra.PropertyLockKey(propertyID),
		l.policy.TTL, l.policy.MaxRetries, l.policy.RetryDelay)
	if err != nil {
		l.metrics.ObserveLock("acquire", "failed", time.Since(start))
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			logger.Warn("property lock contended", logger.PropertyID(propertyID))
			return nil, errPropertyBusy
		}
		return nil, fmt.Errorf("failed to acquire property lock: %w", err)
	}
	l.metrics.ObserveLock("acquire", "success", time.Since(start))

	return func() {
		// the caller's ctx may already be done once the request finishes
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		begin := time.Now()
		if err := lock.Release(releaseCtx); err != nil {
			l.metrics.ObserveLock("release", "failed", time.Since(begin))
			logger.Warn("failed to release property lock", logger.PropertyID(propertyID), zap.Error(err))
			return
		}
		l.metrics.ObserveLock("release", "success", time.Since(begin))
	}, nil
}
