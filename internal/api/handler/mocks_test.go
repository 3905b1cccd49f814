package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/basilmuhammad91/property-booking-platform/internal/application"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
)

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) CheckAvailability(ctx context.Context, propertyID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, propertyID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityService) Quote(ctx context.Context, propertyID string, start, end time.Time) (*application.Quote, error) {
	args := m.Called(ctx, propertyID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Quote), args.Error(1)
}

func (m *MockAvailabilityService) SetAvailability(ctx context.Context, propertyID string, inputs []application.BlockInput) ([]*availability.Block, error) {
	args := m.Called(ctx, propertyID, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*availability.Block), args.Error(1)
}

func (m *MockAvailabilityService) GetAvailability(ctx context.Context, propertyID string, from, to *time.Time) ([]*availability.Block, error) {
	args := m.Called(ctx, propertyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*availability.Block), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) booking(args mock.Arguments) (*booking.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) bookings(args mock.Arguments) ([]*booking.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error) {
	return m.booking(m.Called(ctx, input))
}

func (m *MockBookingService) ConfirmBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return m.booking(m.Called(ctx, id))
}

func (m *MockBookingService) RejectBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return m.booking(m.Called(ctx, id))
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id string, actor booking.Actor) (*booking.Booking, error) {
	return m.booking(m.Called(ctx, id, actor))
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return m.booking(m.Called(ctx, id))
}

func (m *MockBookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	return m.bookings(m.Called(ctx, userID, limit, offset))
}

func (m *MockBookingService) GetPropertyBookings(ctx context.Context, propertyID string, limit, offset int) ([]*booking.Booking, error) {
	return m.bookings(m.Called(ctx, propertyID, limit, offset))
}

func (m *MockBookingService) GetPendingBookings(ctx context.Context, limit, offset int) ([]*booking.Booking, error) {
	return m.bookings(m.Called(ctx, limit, offset))
}

func (m *MockBookingService) ListBookings(ctx context.Context, f booking.Filter) ([]*booking.Booking, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*booking.Booking), args.Int(1), args.Error(2)
}

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyService) DeactivateProperty(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
