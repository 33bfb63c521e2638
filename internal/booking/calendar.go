package booking

import (
	"time"

	"github.com/jinzhu/now"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// CalendarDay groups the bookings of one date.
type CalendarDay struct {
	Bookings []model.Booking `json:"bookings"`
	Count    int             `json:"count"`
}

// MonthRange returns the first and last date of a month.
func MonthRange(month, year int) (from, to string, err error) {
	if month < 1 || month > 12 {
		return "", "", Invalid("month", "must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return "", "", Invalid("year", "out of range")
	}
	n := now.With(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	return n.BeginningOfMonth().Format(DateLayout), n.EndOfMonth().Format(DateLayout), nil
}

// GroupByDate buckets bookings by booking_date, each day ordered by time.
func GroupByDate(bookings []model.Booking) map[string]CalendarDay {
	out := make(map[string]CalendarDay)
	for _, b := range bookings {
		d := out[b.BookingDate]
		d.Bookings = append(d.Bookings, b)
		d.Count++
		out[b.BookingDate] = d
	}
	for k, d := range out {
		Sort(d.Bookings, "booking_time", Asc)
		out[k] = d
	}
	return out
}
