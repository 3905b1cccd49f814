package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/basilmuhammad91/property-booking-platform/internal/application"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
)

type AvailabilityHandler struct {
	service AvailabilityServiceInterface
}

func NewAvailabilityHandler(s AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: s}
}

type CheckAvailabilityRequest struct {
	StartDate string `query:"start_date" validate:"required,day" example:"2025-01-10"`
	EndDate   string `query:"end_date" validate:"required,day" example:"2025-01-13"`
}

type BlockRequest struct {
	StartDate   string           `json:"start_date" validate:"required,day" example:"2025-01-01"`
	EndDate     string           `json:"end_date" validate:"required,day" example:"2025-01-31"`
	IsAvailable *bool            `json:"is_available" validate:"required"`
	Price       *decimal.Decimal `json:"price,omitempty" example:"120.00"`
}

type SetAvailabilityRequest struct {
	Blocks []BlockRequest `json:"blocks" validate:"required,min=1,dive"`
}

// Get godoc
// @Summary List availability blocks
// @Tags availability
// @Produce json
// @Param property_id path string true "property id"
// @Param start_date query string false "window start (YYYY-MM-DD)"
// @Param end_date query string false "window end (YYYY-MM-DD)"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} map[string]string
// @Router /properties/{property_id}/availability [get]
func (h *AvailabilityHandler) Get(c echo.Context) error {
	propertyID := c.Param("property_id")
	from, err := optionalDay(c, "start_date")
	if err != nil {
		return err
	}
	to, err := optionalDay(c, "end_date")
	if err != nil {
		return err
	}

	blocks, err := h.service.GetAvailability(c.Request().Context(), propertyID, from, to)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{PropertyID: propertyID, Blocks: toBlockResponses(blocks)})
}

// Check godoc
// @Summary Check whether a stay can be booked, with its price
// @Tags availability
// @Produce json
// @Param property_id path string true "property id"
// @Param start_date query string true "check-in (YYYY-MM-DD)"
// @Param end_date query string true "check-out (YYYY-MM-DD)"
// @Success 200 {object} AvailabilityCheckResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{property_id}/availability/check [get]
func (h *AvailabilityHandler) Check(c echo.Context) error {
	var req CheckAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, _ := daterange.Parse(req.StartDate)
	end, _ := daterange.Parse(req.EndDate)
	propertyID := c.Param("property_id")
	ctx := c.Request().Context()

	available, err := h.service.CheckAvailability(ctx, propertyID, start, end)
	if err != nil {
		return toHTTPError(err)
	}

	resp := AvailabilityCheckResponse{
		PropertyID: propertyID, StartDate: req.StartDate, EndDate: req.EndDate, Available: available,
	}
	if available {
		quote, err := h.service.Quote(ctx, propertyID, start, end)
		if err != nil {
			return toHTTPError(err)
		}
		total := quote.TotalAmount.StringFixed(2)
		resp.Nights, resp.TotalAmount = quote.Nights, &total
	} else {
		resp.Nights, _ = daterange.NightsBetween(start, end)
	}
	return c.JSON(http.StatusOK, resp)
}

// Set godoc
// @Summary Create or update availability blocks (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param property_id path string true "property id"
// @Param request body SetAvailabilityRequest true "blocks"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/properties/{property_id}/availability [put]
func (h *AvailabilityHandler) Set(c echo.Context) error {
	var req SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	inputs := make([]application.BlockInput, len(req.Blocks))
	for i, b := range req.Blocks {
		start, _ := daterange.Parse(b.StartDate)
		end, _ := daterange.Parse(b.EndDate)
		inputs[i] = application.BlockInput{StartDate: start, EndDate: end, IsAvailable: *b.IsAvailable}
		if b.Price != nil {
			inputs[i].PriceOverride = decimal.NullDecimal{Decimal: *b.Price, Valid: true}
		}
	}

	propertyID := c.Param("property_id")
	blocks, err := h.service.SetAvailability(c.Request().Context(), propertyID, inputs)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{PropertyID: propertyID, Blocks: toBlockResponses(blocks)})
}
