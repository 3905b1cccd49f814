package availability

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
)

// Price overrides are stored as NUMERIC(10,2).
const PriceScale = 2

// MaxPrice is the first override amount the price column cannot hold.
var MaxPrice = decimal.New(1, 8)

// Block is an admin statement about an inclusive span of days for one property.
type Block struct {
	ID            string
	PropertyID    string
	StartDate     time.Time
	EndDate       time.Time
	IsAvailable   bool
	PriceOverride decimal.NullDecimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBlock creates a block with normalised dates.
func NewBlock(propertyID string, start, end time.Time, isAvailable bool, price decimal.NullDecimal) *Block {
	now := time.Now()
	return &Block{
		PropertyID:    propertyID,
		StartDate:     daterange.Normalize(start),
		EndDate:       daterange.Normalize(end),
		IsAvailable:   isAvailable,
		PriceOverride: price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Range returns the inclusive span of the block.
func (b *Block) Range() daterange.Range {
	return daterange.New(b.StartDate, b.EndDate)
}

// Covers reports whether day lies inside the block.
func (b *Block) Covers(day time.Time) bool {
	return b.Range().Contains(day)
}

// SameSpan reports whether the block has exactly this start and end.
func (b *Block) SameSpan(start, end time.Time) bool {
	return b.StartDate.Equal(daterange.Normalize(start)) && b.EndDate.Equal(daterange.Normalize(end))
}

// NightlyPrice returns the override when it is usable. Missing or negative
// overrides report false so the caller falls back to the base price.
func (b *Block) NightlyPrice() (decimal.Decimal, bool) {
	if !b.PriceOverride.Valid || b.PriceOverride.Decimal.IsNegative() {
		return decimal.Decimal{}, false
	}
	return b.PriceOverride.Decimal, true
}

// Validate checks the block before it is stored.
func (b *Block) Validate() error {
	if b.PropertyID == "" {
		return ErrPropertyIDRequired
	}
	if err := b.Range().Validate(); err != nil {
		return err
	}
	if b.PriceOverride.Valid && !validPrice(b.PriceOverride.Decimal) {
		return ErrInvalidPrice
	}
	return nil
}

func validPrice(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThan(MaxPrice) && p.Equal(p.Round(PriceScale))
}

// ParsePrice reads a stored override. Anything that is not a number yields
// an invalid NullDecimal, which prices the night at the property's base rate.
func ParsePrice(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Calendar is the full block set of one property.
//
// Blocks may overlap. For a given day an unavailable block always wins, and a
// day with no covering block at all is unavailable.
type Calendar struct {
	PropertyID string
	blocks     []*Block
}

// NewCalendar wraps the blocks loaded for a property.
func NewCalendar(propertyID string, blocks []*Block) *Calendar {
	return &Calendar{PropertyID: propertyID, blocks: blocks}
}

// IsBlockedOn reports whether day cannot be booked.
func (c *Calendar) IsBlockedOn(day time.Time) bool {
	covered := false
	for _, b := range c.blocks {
		if !b.Covers(day) {
			continue
		}
		if !b.IsAvailable {
			return true
		}
		covered = true
	}
	return !covered
}

// PriceOn returns the nightly price for day: the override of the most specific
// available block covering it, or fallback.
func (c *Calendar) PriceOn(day time.Time, fallback decimal.Decimal) decimal.Decimal {
	best := c.bestAvailableBlock(day)
	if best == nil {
		return fallback
	}
	if price, ok := best.NightlyPrice(); ok {
		return price
	}
	return fallback
}

// bestAvailableBlock picks the shortest covering available block; ties go to
// the most recently updated one.
func (c *Calendar) bestAvailableBlock(day time.Time) *Block {
	var best *Block
	for _, b := range c.blocks {
		if !b.IsAvailable || !b.Covers(day) {
			continue
		}
		if best == nil {
			best = b
			continue
		}
		bd, cd := b.Range().Days(), best.Range().Days()
		if bd < cd || (bd == cd && b.UpdatedAt.After(best.UpdatedAt)) {
			best = b
		}
	}
	return best
}

// Upsert records an admin statement. A block with the identical span is
// updated in place; otherwise a new block is appended. Overlaps with other
// blocks are neither merged nor rejected.
func (c *Calendar) Upsert(start, end time.Time, isAvailable bool, price decimal.NullDecimal, now time.Time) (*Block, error) {
	for _, b := range c.blocks {
		if b.SameSpan(start, end) {
			updated := *b
			updated.IsAvailable = isAvailable
			updated.PriceOverride = price
			updated.UpdatedAt = now
			if err := updated.Validate(); err != nil {
				return nil, err
			}
			*b = updated
			return b, nil
		}
	}

	b := NewBlock(c.PropertyID, start, end, isAvailable, price)
	b.CreatedAt, b.UpdatedAt = now, now
	if err := b.Validate(); err != nil {
		return nil, err
	}
	c.blocks = append(c.blocks, b)
	return b, nil
}

// Blocks returns the blocks ordered by start date, then end date.
func (c *Calendar) Blocks() []*Block {
	out := make([]*Block, len(c.blocks))
	copy(out, c.blocks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].EndDate.Before(out[j].EndDate)
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// BlocksWithin returns the ordered blocks that end on or after from and start
// on or before to. Nil bounds are open.
func (c *Calendar) BlocksWithin(from, to *time.Time) []*Block {
	all := c.Blocks()
	out := make([]*Block, 0, len(all))
	for _, b := range all {
		if from != nil && b.EndDate.Before(daterange.Normalize(*from)) {
			continue
		}
		if to != nil && b.StartDate.After(daterange.Normalize(*to)) {
			continue
		}
		out = append(out, b)
	}
	return out
}
