package property

import "github.com/shopspring/decimal"

// Property is the slice of a listing the booking engine needs.
type Property struct {
	ID                string
	BasePricePerNight decimal.Decimal
	IsActive          bool
}

// IsBookable reports whether the property accepts bookings at all.
func (p *Property) IsBookable() bool {
	return p.IsActive
}
