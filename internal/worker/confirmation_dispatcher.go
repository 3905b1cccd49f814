package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/user"
	"github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/mail"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/logger"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/metrics"
)

// Notification status labels.
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationDropped = "dropped"
)

const (
	DefaultQueueSize = 100
	sendTimeout      = 10 * time.Second
)

// ConfirmationDispatcher delivers confirmation mail off the request path.
// Bookings are queued by NotifyBookingConfirmed and sent by the Start loop.
// Delivery failures are logged and counted; they never reach the caller.
type ConfirmationDispatcher struct {
	sender  mail.Sender
	users   user.Repository
	metrics *metrics.Metrics
	queue   chan booking.Booking
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewConfirmationDispatcher creates a dispatcher. m may be nil.
func NewConfirmationDispatcher(sender mail.Sender, users user.Repository, queueSize int, m *metrics.Metrics) *ConfirmationDispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &ConfirmationDispatcher{
		sender:  sender,
		users:   users,
		metrics: m,
		queue:   make(chan booking.Booking, queueSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// NotifyBookingConfirmed queues b without blocking. A full queue drops the
// notification.
func (d *ConfirmationDispatcher) NotifyBookingConfirmed(_ context.Context, b *booking.Booking) {
	select {
	case d.queue <- *b:
	default:
		logger.Warn("confirmation queue full, dropping notification", logger.BookingID(b.ID))
		d.metrics.RecordNotification(NotificationDropped)
	}
}

// Start runs the delivery loop until ctx is cancelled or Stop is called.
// On Stop, bookings already queued are still delivered.
func (d *ConfirmationDispatcher) Start(ctx context.Context) {
	logger.Info("confirmation dispatcher started", zap.Int("queue_size", cap(d.queue)))
	defer close(d.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("confirmation dispatcher stopped (context cancelled)")
			return
		case <-d.stopCh:
			d.drain(ctx)
			logger.Info("confirmation dispatcher stopped")
			return
		case b := <-d.queue:
			d.deliver(ctx, &b)
		}
	}
}

// Stop ends the loop and waits for it to return.
func (d *ConfirmationDispatcher) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

func (d *ConfirmationDispatcher) drain(ctx context.Context) {
	for {
		select {
		case b := <-d.queue:
			d.deliver(ctx, &b)
		default:
			return
		}
	}
}

func (d *ConfirmationDispatcher) deliver(ctx context.Context, b *booking.Booking) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	log := logger.With(logger.BookingID(b.ID), logger.UserID(b.UserID))
	log.Info("sending booking confirmation")

	c, err := d.confirmation(ctx, b)
	if err == nil {
		err = d.sender.SendBookingConfirmation(ctx, c)
	}
	if err != nil {
		log.Error("failed to send booking confirmation", zap.Error(err))
		d.metrics.RecordNotification(NotificationFailed)
		return
	}

	log.Info("booking confirmation sent")
	d.metrics.RecordNotification(NotificationSent)
}

func (d *ConfirmationDispatcher) confirmation(ctx context.Context, b *booking.Booking) (mail.Confirmation, error) {
	u, err := d.users.GetByID(ctx, b.UserID)
	if err != nil {
		return mail.Confirmation{}, fmt.Errorf("look up recipient: %w", err)
	}
	return mail.Confirmation{
		BookingID:      b.ID,
		PropertyID:     b.PropertyID,
		RecipientName:  u.Name,
		RecipientEmail: u.Email,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Nights:         b.Nights,
		TotalAmount:    b.TotalAmount,
	}, nil
}
