package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/logger"
)

// Confirmation is what a guest is told once an admin confirms their booking.
type Confirmation struct {
	BookingID      string
	PropertyID     string
	RecipientName  string
	RecipientEmail string
	StartDate      time.Time
	EndDate        time.Time
	Nights         int
	TotalAmount    decimal.Decimal
}

// Sender delivers booking confirmations.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, c Confirmation) error
}

func subject(c Confirmation) string {
	return fmt.Sprintf("Booking %s confirmed", c.BookingID)
}

func body(c Confirmation) string {
	name := c.RecipientName
	if name == "" {
		name = "guest"
	}
	return fmt.Sprintf(
		"Hello %s,\n\nYour booking %s is confirmed.\n\nCheck-in:  %s\nCheck-out: %s\nNights:    %d\nTotal:     %s\n",
		name, c.BookingID,
		daterange.Format(c.StartDate), daterange.Format(c.EndDate),
		c.Nights, c.TotalAmount.StringFixed(2),
	)
}

// LogSender only logs the confirmation. It is used when SMTP is not configured.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (LogSender) SendBookingConfirmation(_ context.Context, c Confirmation) error {
	logger.Info("booking confirmation email",
		logger.BookingID(c.BookingID),
		logger.PropertyID(c.PropertyID),
		zap.String("user_email", c.RecipientEmail),
		zap.String("subject", subject(c)),
	)
	return nil
}

var _ Sender = LogSender{}
