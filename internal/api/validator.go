package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
)

// CustomValidator plugs go-playground/validator into echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that also understands the "day" tag,
// which accepts YYYY-MM-DD strings.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		_, err := daterange.Parse(fl.Field().String())
		return err == nil
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
