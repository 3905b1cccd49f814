package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type PropertyHandler struct {
	service PropertyServiceInterface
}

func NewPropertyHandler(s PropertyServiceInterface) *PropertyHandler {
	return &PropertyHandler{service: s}
}

type PropertyResponse struct {
	ID            string `json:"id"`
	PricePerNight string `json:"price_per_night" example:"100.00"`
	IsActive      bool   `json:"is_active"`
}

// Get godoc
// @Summary Get a property (admin)
// @Description Returns the base nightly price and whether the property takes bookings.
// @Tags admin
// @Produce json
// @Param property_id path string true "property id"
// @Success 200 {object} PropertyResponse
// @Failure 404 {object} map[string]string
// @Router /admin/properties/{property_id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	p, err := h.service.GetProperty(c.Request().Context(), c.Param("property_id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, PropertyResponse{
		ID: p.ID, PricePerNight: p.BasePricePerNight.StringFixed(2), IsActive: p.IsActive,
	})
}

type DeactivateResponse struct {
	PropertyID       string `json:"property_id"`
	IsActive         bool   `json:"is_active"`
	RejectedBookings int    `json:"rejected_bookings"`
}

// Deactivate godoc
// @Summary Take a property off the market (admin)
// @Description Marks the property inactive and rejects its pending bookings.
// @Tags admin
// @Produce json
// @Param property_id path string true "property id"
// @Success 200 {object} DeactivateResponse
// @Failure 404 {object} map[string]string
// @Router /admin/properties/{property_id}/deactivate [post]
func (h *PropertyHandler) Deactivate(c echo.Context) error {
	propertyID := c.Param("property_id")
	rejected, err := h.service.DeactivateProperty(c.Request().Context(), propertyID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, DeactivateResponse{PropertyID: propertyID, IsActive: false, RejectedBookings: rejected})
}
