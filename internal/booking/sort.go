package booking

import (
	"cmp"
	"sort"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"

	DefaultSortField = "booking_datetime"
)

// ParseOrder maps user input to an Order; anything but "asc" sorts descending.
func ParseOrder(raw string) Order {
	if strings.EqualFold(strings.TrimSpace(raw), string(Asc)) {
		return Asc
	}
	return Desc
}

// compareFunc orders two bookings; negative means a sorts first.
type compareFunc func(a, b model.Booking) int

var numericFields = map[string]compareFunc{
	"party_size":   func(a, b model.Booking) int { return cmp.Compare(a.PartySize, b.PartySize) },
	"id":           func(a, b model.Booking) int { return cmp.Compare(a.ID, b.ID) },
	"location_id":  func(a, b model.Booking) int { return cmp.Compare(a.LocationID, b.LocationID) },
	"total_amount": func(a, b model.Booking) int { return cmp.Compare(a.TotalAmount, b.TotalAmount) },
}

// stringField exposes the remaining sortable fields by their JSON name.
func stringField(b model.Booking, field string) (string, bool) {
	switch field {
	case DefaultSortField:
		return b.DateTime(), true
	case "booking_date":
		return b.BookingDate, true
	case "booking_time":
		return b.BookingTime, true
	case "customer_name":
		return b.CustomerName, true
	case "customer_email":
		return b.CustomerEmail, true
	case "customer_phone":
		return b.CustomerPhone, true
	case "status":
		return string(b.Status), true
	case "table_number":
		return b.TableNumber, true
	case "location_name":
		return b.LocationName, true
	case "source":
		return b.Source, true
	case "reference":
		return b.Reference, true
	case "special_requests":
		return b.SpecialRequests, true
	}
	return "", false
}

// comparer resolves field to a comparison; unknown fields fall back to
// the booking date and time.
func comparer(field string) compareFunc {
	field = strings.ToLower(strings.TrimSpace(field))
	if f, ok := numericFields[field]; ok {
		return f
	}
	if field == "created_at" || field == "updated_at" {
		return func(a, b model.Booking) int {
			if field == "created_at" {
				return a.CreatedAt.Compare(b.CreatedAt)
			}
			return a.UpdatedAt.Compare(b.UpdatedAt)
		}
	}
	if _, ok := stringField(model.Booking{}, field); !ok {
		field = DefaultSortField
	}
	return func(a, b model.Booking) int {
		av, _ := stringField(a, field)
		bv, _ := stringField(b, field)
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	}
}

// Sort orders bookings in place by field. The sort is stable, so equal
// keys keep their incoming order in both directions.
func Sort(bookings []model.Booking, field string, order Order) {
	compare := comparer(field)
	sort.SliceStable(bookings, func(i, j int) bool {
		c := compare(bookings[i], bookings[j])
		if order == Asc {
			return c < 0
		}
		return c > 0
	})
}
