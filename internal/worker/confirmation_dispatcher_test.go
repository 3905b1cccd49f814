package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/user"
	"github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/mail"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/metrics"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendBookingConfirmation(ctx context.Context, c mail.Confirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func confirmedBooking(id string) *booking.Booking {
	return &booking.Booking{
		ID:          id,
		PropertyID:  "p-1",
		UserID:      "u-1",
		StartDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		Nights:      3,
		TotalAmount: decimal.NewFromInt(300),
		Status:      booking.StatusConfirmed,
	}
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry())
}

func TestNewConfirmationDispatcher(t *testing.T) {
	d := NewConfirmationDispatcher(new(MockSender), new(MockUserRepository), 0, nil)

	assert.Equal(t, DefaultQueueSize, cap(d.queue))
	assert.NotNil(t, d.stopCh)
	assert.NotNil(t, d.doneCh)
}

func TestConfirmationDispatcher_Deliver(t *testing.T) {
	t.Run("sends mail to the booking owner", func(t *testing.T) {
		sender, users, m := new(MockSender), new(MockUserRepository), newTestMetrics()
		users.On("GetByID", mock.Anything, "u-1").Return(&user.User{ID: "u-1", Name: "Ada", Email: "ada@example.com"}, nil)
		sender.On("SendBookingConfirmation", mock.Anything, mock.MatchedBy(func(c mail.Confirmation) bool {
			return c.BookingID == "bk-1" && c.RecipientEmail == "ada@example.com" && c.Nights == 3
		})).Return(nil)

		d := NewConfirmationDispatcher(sender, users, 1, m)
		d.deliver(context.Background(), confirmedBooking("bk-1"))

		sender.AssertExpectations(t)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues(NotificationSent)))
	})

	t.Run("unknown recipient is counted as failed", func(t *testing.T) {
		sender, users, m := new(MockSender), new(MockUserRepository), newTestMetrics()
		users.On("GetByID", mock.Anything, "u-1").Return(nil, user.ErrUserNotFound)

		d := NewConfirmationDispatcher(sender, users, 1, m)
		d.deliver(context.Background(), confirmedBooking("bk-1"))

		sender.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues(NotificationFailed)))
	})

	t.Run("smtp failure is counted as failed", func(t *testing.T) {
		sender, users, m := new(MockSender), new(MockUserRepository), newTestMetrics()
		users.On("GetByID", mock.Anything, "u-1").Return(&user.User{ID: "u-1", Email: "ada@example.com"}, nil)
		sender.On("SendBookingConfirmation", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		d := NewConfirmationDispatcher(sender, users, 1, m)
		d.deliver(context.Background(), confirmedBooking("bk-1"))

		assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues(NotificationFailed)))
	})
}

func TestConfirmationDispatcher_FullQueueDrops(t *testing.T) {
	m := newTestMetrics()
	d := NewConfirmationDispatcher(new(MockSender), new(MockUserRepository), 1, m)

	d.NotifyBookingConfirmed(context.Background(), confirmedBooking("bk-1"))
	d.NotifyBookingConfirmed(context.Background(), confirmedBooking("bk-2"))

	assert.Len(t, d.queue, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues(NotificationDropped)))
}

func TestConfirmationDispatcher_StopDrainsQueue(t *testing.T) {
	sender, users := new(MockSender), new(MockUserRepository)
	users.On("GetByID", mock.Anything, "u-1").Return(&user.User{ID: "u-1", Email: "ada@example.com"}, nil)
	sender.On("SendBookingConfirmation", mock.Anything, mock.Anything).Return(nil)

	d := NewConfirmationDispatcher(sender, users, 10, nil)
	for _, id := range []string{"bk-1", "bk-2", "bk-3"} {
		d.NotifyBookingConfirmed(context.Background(), confirmedBooking(id))
	}

	go d.Start(context.Background())
	d.Stop()

	sender.AssertNumberOfCalls(t, "SendBookingConfirmation", 3)
	assert.Empty(t, d.queue)
}

func TestConfirmationDispatcher_QueuedCopyIsIndependent(t *testing.T) {
	d := NewConfirmationDispatcher(new(MockSender), new(MockUserRepository), 1, nil)
	b := confirmedBooking("bk-1")

	d.NotifyBookingConfirmed(context.Background(), b)
	b.Status = booking.StatusCancelled

	queued := <-d.queue
	assert.Equal(t, booking.StatusConfirmed, queued.Status)
}

func TestConfirmationDispatcher_StopsOnContextCancel(t *testing.T) {
	d := NewConfirmationDispatcher(new(MockSender), new(MockUserRepository), 1, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "dispatcher did not stop")
	}
}
