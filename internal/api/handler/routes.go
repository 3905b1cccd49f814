package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/basilmuhammad91/property-booking-platform/internal/api/middleware"
)

// Handlers groups the route handlers.
type Handlers struct {
	Health       *HealthHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Property     *PropertyHandler
}

// RegisterRoutes mounts the public and admin API.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Check)

	v1 := e.Group("/api/v1")

	v1.GET("/properties/:property_id/availability", h.Availability.Get)
	v1.GET("/properties/:property_id/availability/check", h.Availability.Check)

	requireUser := middleware.RequireUser()
	v1.POST("/properties/:property_id/bookings", h.Booking.Create, requireUser)
	v1.GET("/bookings", h.Booking.ListMine, requireUser)
	v1.GET("/bookings/:id", h.Booking.GetByID, requireUser)
	v1.POST("/bookings/:id/cancel", h.Booking.Cancel, requireUser)

	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.PUT("/properties/:property_id/availability", h.Availability.Set)
	admin.GET("/properties/:property_id/bookings", h.Booking.PropertyBookings)
	admin.GET("/properties/:property_id", h.Property.Get)
	admin.POST("/properties/:property_id/deactivate", h.Property.Deactivate)
	admin.GET("/bookings", h.Booking.List)
	admin.GET("/bookings/pending", h.Booking.Pending)
	admin.POST("/bookings/:id/confirm", h.Booking.Confirm)
	admin.POST("/bookings/:id/reject", h.Booking.Reject)
}
