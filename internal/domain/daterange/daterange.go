package daterange

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// Layout is the wire format for calendar days.
const Layout = "2006-01-02"

const day = 24 * time.Hour

var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrDateInPast   = fmt.Errorf("%w: start date is in the past", ErrInvalidRange)
)

// Range is an inclusive span of calendar days [Start, End].
// Booking nights use the half-open [Start, End) view, see Nights.
type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a Range with both ends normalised to UTC midnight.
func New(start, end time.Time) Range {
	return Range{Start: Normalize(start), End: Normalize(end)}
}

// Normalize drops the time of day, keeping the calendar date as seen in t's location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD calendar day.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrInvalidRange, s)
	}
	return t, nil
}

// Format renders a calendar day as YYYY-MM-DD.
func Format(t time.Time) string {
	return Normalize(t).Format(Layout)
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Contains reports whether day falls inside the inclusive range.
func (r Range) Contains(t time.Time) bool {
	d := Normalize(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the number of calendar days covered, both ends included.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start)/day) + 1
}

// Validate fails unless End is on or after Start.
func (r Range) Validate() error {
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

func (r Range) String() string {
	return Format(r.Start) + ".." + Format(r.End)
}

// NightsBetween returns end - start in whole days. end must be after start.
func NightsBetween(start, end time.Time) (int, error) {
	s, e := Normalize(start), Normalize(end)
	if !e.After(s) {
		return 0, ErrInvalidRange
	}
	return int(e.Sub(s) / day), nil
}

// DaysInclusive yields every calendar day from start to end, both included.
// The sequence holds no cursor state, so it can be ranged over any number of times.
func DaysInclusive(start, end time.Time) iter.Seq[time.Time] {
	s, e := Normalize(start), Normalize(end)
	return func(yield func(time.Time) bool) {
		for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Nights yields the billable nights of a stay: start up to, but excluding, end.
func Nights(start, end time.Time) iter.Seq[time.Time] {
	return DaysInclusive(start, Normalize(end).AddDate(0, 0, -1))
}
