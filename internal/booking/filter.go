package booking

import (
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Filter selects bookings. Zero-valued fields are ignored; the remaining
// clauses must all hold. Date bounds are inclusive and compared as
// canonical YYYY-MM-DD strings.
type Filter struct {
	Status     model.BookingStatus `json:"status,omitempty"`
	LocationID uint64              `json:"location_id,omitempty"`
	DateFrom   string              `json:"date_from,omitempty"`
	DateTo     string              `json:"date_to,omitempty"`
	Search     string              `json:"search,omitempty"`
}

// Match reports whether b satisfies every clause of f.
func (f Filter) Match(b model.Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.LocationID != 0 && b.LocationID != f.LocationID {
		return false
	}
	if f.DateFrom != "" && b.BookingDate < f.DateFrom {
		return false
	}
	if f.DateTo != "" && b.BookingDate > f.DateTo {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(b.CustomerName + " " + b.CustomerEmail + " " + b.CustomerPhone)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// WithoutStatus returns a copy of f with the status clause cleared. The
// status summary is computed over this wider set so that every tab of the
// booking list shows its own count.
func (f Filter) WithoutStatus() Filter {
	f.Status = ""
	return f
}

// Apply returns the bookings matching f in their original order.
func Apply(bookings []model.Booking, f Filter) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
