package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/user"
)

// toHTTPError maps domain errors onto status codes. Unknown errors become a
// 500 that keeps the cause as the internal error for logging.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, availability.ErrInvalidPrice),
		errors.Is(err, availability.ErrPropertyIDRequired),
		errors.Is(err, booking.ErrPropertyIDRequired),
		errors.Is(err, booking.ErrUserIDRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, property.ErrPropertyNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrBookingConflict):
		return echo.NewHTTPError(http.StatusConflict, booking.ErrBookingConflict.Error())
	case errors.Is(err, booking.ErrCancelNotAllowed):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}

// page reads limit and offset query parameters; bad values read as zero.
func page(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

// optionalDay parses an optional YYYY-MM-DD query parameter.
func optionalDay(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := daterange.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a YYYY-MM-DD date")
	}
	return &d, nil
}
