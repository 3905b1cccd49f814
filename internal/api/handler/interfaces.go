package handler

import (
	"context"
	"time"

	"github.com/basilmuhammad91/property-booking-platform/internal/application"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
)

// AvailabilityServiceInterface is the availability surface the handlers use.
type AvailabilityServiceInterface interface {
	CheckAvailability(ctx context.Context, propertyID string, start, end time.Time) (bool, error)
	Quote(ctx context.Context, propertyID string, start, end time.Time) (*application.Quote, error)
	SetAvailability(ctx context.Context, propertyID string, inputs []application.BlockInput) ([]*availability.Block, error)
	GetAvailability(ctx context.Context, propertyID string, from, to *time.Time) ([]*availability.Block, error)
}

// BookingServiceInterface is the booking surface the handlers use.
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*booking.Booking, error)
	RejectBooking(ctx context.Context, id string) (*booking.Booking, error)
	CancelBooking(ctx context.Context, id string, actor booking.Actor) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
	GetPropertyBookings(ctx context.Context, propertyID string, limit, offset int) ([]*booking.Booking, error)
	GetPendingBookings(ctx context.Context, limit, offset int) ([]*booking.Booking, error)
	ListBookings(ctx context.Context, f booking.Filter) ([]*booking.Booking, int, error)
}

// PropertyServiceInterface is the property surface the handlers use.
type PropertyServiceInterface interface {
	GetProperty(ctx context.Context, id string) (*property.Property, error)
	DeactivateProperty(ctx context.Context, id string) (int, error)
}

var (
	_ AvailabilityServiceInterface = (*application.AvailabilityService)(nil)
	_ BookingServiceInterface      = (*application.BookingService)(nil)
	_ PropertyServiceInterface     = (*application.PropertyService)(nil)
)
