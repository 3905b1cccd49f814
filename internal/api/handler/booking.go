package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/basilmuhammad91/property-booking-platform/internal/api/middleware"
	"github.com/basilmuhammad91/property-booking-platform/internal/application"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	StartDate string `json:"start_date" validate:"required,day" example:"2025-01-10"`
	EndDate   string `json:"end_date" validate:"required,day" example:"2025-01-13"`
}

// Create godoc
// @Summary Request a booking
// @Description Creates a pending booking when every night is bookable.
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "user id"
// @Param property_id path string true "property id"
// @Param request body CreateBookingRequest true "stay"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "dates not available"
// @Router /properties/{property_id}/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if actor.UserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user id is required")
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, _ := daterange.Parse(req.StartDate)
	end, _ := daterange.Parse(req.EndDate)

	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		PropertyID: c.Param("property_id"), UserID: actor.UserID, StartDate: start, EndDate: end,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary Get a booking
// @Description Owners see their own bookings; admins see all.
// @Tags bookings
// @Produce json
// @Param id path string true "booking id"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	actor := middleware.ActorFrom(c)
	if !actor.IsAdmin && !b.IsOwnedBy(actor.UserID) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed to view this booking")
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// ListMine godoc
// @Summary List the caller's bookings, newest first
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "user id"
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if actor.UserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user id is required")
	}
	limit, offset := page(c)
	bookings, err := h.service.GetUserBookings(c.Request().Context(), actor.UserID, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// Cancel godoc
// @Summary Cancel a booking
// @Description The owner or an admin may cancel a pending or confirmed booking.
// @Tags bookings
// @Produce json
// @Param id path string true "booking id"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	b, err := h.service.CancelBooking(c.Request().Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Confirm godoc
// @Summary Confirm a pending booking (admin)
// @Tags admin
// @Produce json
// @Param id path string true "booking id"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c echo.Context) error {
	b, err := h.service.ConfirmBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Reject godoc
// @Summary Reject a pending booking (admin)
// @Tags admin
// @Produce json
// @Param id path string true "booking id"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/reject [post]
func (h *BookingHandler) Reject(c echo.Context) error {
	b, err := h.service.RejectBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// List godoc
// @Summary List bookings with filters (admin)
// @Tags admin
// @Produce json
// @Param status query string false "pending|confirmed|rejected|cancelled"
// @Param property_id query string false "property id"
// @Param user_id query string false "user id"
// @Param start_date query string false "bookings starting on or after"
// @Param end_date query string false "bookings ending on or before"
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} BookingListResponse
// @Router /admin/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	f := booking.Filter{PropertyID: c.QueryParam("property_id"), UserID: c.QueryParam("user_id")}
	if raw := c.QueryParam("status"); raw != "" {
		status, ok := booking.ParseStatus(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+raw)
		}
		f.Status = status
	}
	var err error
	if f.StartFrom, err = optionalDay(c, "start_date"); err != nil {
		return err
	}
	if f.EndUntil, err = optionalDay(c, "end_date"); err != nil {
		return err
	}
	f.Limit, f.Offset = page(c)
	f = f.Normalized()

	items, total, err := h.service.ListBookings(c.Request().Context(), f)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, BookingListResponse{
		Data: toBookingResponses(items), Total: total, Limit: f.Limit, Offset: f.Offset,
	})
}

// Pending godoc
// @Summary List pending bookings, oldest first (admin)
// @Tags admin
// @Produce json
// @Success 200 {array} BookingResponse
// @Router /admin/bookings/pending [get]
func (h *BookingHandler) Pending(c echo.Context) error {
	limit, offset := page(c)
	items, err := h.service.GetPendingBookings(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(items))
}

// PropertyBookings godoc
// @Summary List a property's bookings (admin)
// @Tags admin
// @Produce json
// @Param property_id path string true "property id"
// @Success 200 {array} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /admin/properties/{property_id}/bookings [get]
func (h *BookingHandler) PropertyBookings(c echo.Context) error {
	limit, offset := page(c)
	items, err := h.service.GetPropertyBookings(c.Request().Context(), c.Param("property_id"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(items))
}
