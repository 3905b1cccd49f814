package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
)

// Identity headers set by the gateway in front of this service.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin = "admin"
)

// ActorFrom reads the caller identity from the request headers.
func ActorFrom(c echo.Context) booking.Actor {
	h := c.Request().Header
	return booking.Actor{
		UserID:  strings.TrimSpace(h.Get(HeaderUserID)),
		IsAdmin: strings.EqualFold(strings.TrimSpace(h.Get(HeaderUserRole)), RoleAdmin),
	}
}

// RequireUser rejects requests without a user id.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ActorFrom(c).UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "user id is required")
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ActorFrom(c).IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}
