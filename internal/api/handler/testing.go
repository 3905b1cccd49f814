package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/basilmuhammad91/property-booking-platform/internal/api"
)

// NewTestEcho returns an echo instance wired like the server, for handler tests.
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
