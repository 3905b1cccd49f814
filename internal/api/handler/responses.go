package handler

import (
	"time"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
)

type BookingResponse struct {
	ID             string     `json:"id" example:"3f1c2b9e-6f0a-4a53-9c1e-2d7a7e1b8c44"`
	PropertyID     string     `json:"property_id"`
	UserID         string     `json:"user_id"`
	StartDate      string     `json:"start_date" example:"2025-01-10"`
	EndDate        string     `json:"end_date" example:"2025-01-13"`
	Nights         int        `json:"nights" example:"3"`
	TotalAmount    string     `json:"total_amount" example:"300.00"`
	Status         string     `json:"status" example:"pending"`
	CanBeCancelled bool       `json:"can_be_cancelled"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, PropertyID: b.PropertyID, UserID: b.UserID,
		StartDate: daterange.Format(b.StartDate), EndDate: daterange.Format(b.EndDate),
		Nights: b.Nights, TotalAmount: b.TotalAmount.StringFixed(2),
		Status: b.Status.String(), CanBeCancelled: b.CanBeCancelled(),
		CancelledAt: b.CancelledAt, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

func toBookingResponses(bs []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bs))
	for i, b := range bs {
		out[i] = toBookingResponse(b)
	}
	return out
}

type BookingListResponse struct {
	Data   []BookingResponse `json:"data"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type BlockResponse struct {
	ID          string  `json:"id"`
	StartDate   string  `json:"start_date" example:"2025-01-01"`
	EndDate     string  `json:"end_date" example:"2025-01-31"`
	IsAvailable bool    `json:"is_available"`
	Price       *string `json:"price" example:"120.00"`
}

func toBlockResponses(blocks []*availability.Block) []BlockResponse {
	out := make([]BlockResponse, len(blocks))
	for i, b := range blocks {
		out[i] = BlockResponse{
			ID: b.ID, StartDate: daterange.Format(b.StartDate), EndDate: daterange.Format(b.EndDate),
			IsAvailable: b.IsAvailable,
		}
		if b.PriceOverride.Valid {
			p := b.PriceOverride.Decimal.StringFixed(2)
			out[i].Price = &p
		}
	}
	return out
}

type AvailabilityResponse struct {
	PropertyID string          `json:"property_id"`
	Blocks     []BlockResponse `json:"blocks"`
}

type AvailabilityCheckResponse struct {
	PropertyID  string  `json:"property_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Available   bool    `json:"available"`
	Nights      int     `json:"nights"`
	TotalAmount *string `json:"total_amount,omitempty" example:"300.00"`
}
