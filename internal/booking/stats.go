package booking

import (
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// PercentChange is the period-over-period change used by every dashboard
// card: 0 when both values are zero, 100 when growing from zero, otherwise
// the relative change rounded to one decimal.
func PercentChange(old, cur float64) float64 {
	if old == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return Round1((cur - old) / old * 100)
}

// LocationStats are the figures of one location on one day.
type LocationStats struct {
	Date            string  `json:"date"`
	LocationID      uint64  `json:"location_id"`
	TotalBookings   int     `json:"total_bookings"`
	Confirmed       int     `json:"confirmed"`
	Pending         int     `json:"pending"`
	Cancelled       int     `json:"cancelled"`
	Completed       int     `json:"completed"`
	TotalGuests     int     `json:"total_guests"`
	Revenue         float64 `json:"revenue"`
	Currency        string  `json:"currency"`
	OccupancyRate   float64 `json:"occupancy_rate"`
	AvailableTables int     `json:"available_tables"`
	UsedTables      int     `json:"used_tables"`
}

// ComputeLocationStats aggregates bookings, which the caller has already
// scoped to one date and location. Occupancy counts the distinct tables
// referenced by non-cancelled bookings and never exceeds 100.
func ComputeLocationStats(bookings []model.Booking, availableTables int, currency string) LocationStats {
	s := LocationStats{Currency: currency, AvailableTables: availableTables}
	used := make(map[string]struct{})
	for _, b := range bookings {
		s.TotalBookings++
		s.TotalGuests += b.PartySize
		s.Revenue += b.TotalAmount
		switch b.Status {
		case model.StatusConfirmed:
			s.Confirmed++
		case model.StatusPending:
			s.Pending++
		case model.StatusCancelled:
			s.Cancelled++
		case model.StatusCompleted:
			s.Completed++
		}
		if b.Active() {
			if t := strings.TrimSpace(b.TableNumber); t != "" {
				used[t] = struct{}{}
			}
		}
	}
	s.Revenue = Round2(s.Revenue)
	s.UsedTables = len(used)
	s.OccupancyRate = Occupancy(s.UsedTables, availableTables)
	return s
}

// Occupancy is min(100, round(used/available*100, 1)), or 0 without tables.
func Occupancy(used, available int) float64 {
	if available <= 0 || used <= 0 {
		return 0
	}
	rate := Round1(float64(used) / float64(available) * 100)
	if rate > 100 {
		return 100
	}
	return rate
}

// ParsePeriod maps a period token to a number of days, defaulting to 7.
func ParsePeriod(token string) int {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "30", "30d", "month":
		return 30
	case "90", "90d", "quarter":
		return 90
	}
	return 7
}

// Window returns the inclusive date range of days days ending on end.
func Window(end time.Time, days int) (from, to string) {
	if days < 1 {
		days = 1
	}
	last := now.With(end).BeginningOfDay()
	first := last.AddDate(0, 0, -(days - 1))
	return first.Format(DateLayout), last.Format(DateLayout)
}

// TrendSeries holds parallel per-day arrays for a chart.
type TrendSeries struct {
	Period   int       `json:"period_days"`
	Dates    []string  `json:"dates"`
	Labels   []string  `json:"labels"`
	Bookings []int     `json:"bookings"`
	Guests   []int     `json:"guests"`
	Revenue  []float64 `json:"revenue"`
}

// BuildTrend computes daily totals for the days days ending on end.
func BuildTrend(bookings []model.Booking, end time.Time, days int) TrendSeries {
	if days < 1 {
		days = 1
	}
	byDate := make(map[string][]model.Booking)
	for _, b := range bookings {
		byDate[b.BookingDate] = append(byDate[b.BookingDate], b)
	}

	ts := TrendSeries{
		Period:   days,
		Dates:    make([]string, 0, days),
		Labels:   make([]string, 0, days),
		Bookings: make([]int, 0, days),
		Guests:   make([]int, 0, days),
		Revenue:  make([]float64, 0, days),
	}
	first := now.With(end).BeginningOfDay().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		key := day.Format(DateLayout)
		st := ComputeLocationStats(byDate[key], 0, "")
		ts.Dates = append(ts.Dates, key)
		ts.Labels = append(ts.Labels, day.Format("Jan 2"))
		ts.Bookings = append(ts.Bookings, st.TotalBookings)
		ts.Guests = append(ts.Guests, st.TotalGuests)
		ts.Revenue = append(ts.Revenue, st.Revenue)
	}
	return ts
}

// Card is one dashboard figure compared with the previous period.
type Card struct {
	Value    float64 `json:"value"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

func newCard(cur, prev float64) Card {
	return Card{Value: cur, Previous: prev, Change: PercentChange(prev, cur)}
}

// Dashboard is the set of cards for one period.
type Dashboard struct {
	Period           int    `json:"period_days"`
	From             string `json:"from"`
	To               string `json:"to"`
	Currency         string `json:"currency"`
	Bookings         Card   `json:"bookings"`
	Guests           Card   `json:"guests"`
	Revenue          Card   `json:"revenue"`
	Cancellations    Card   `json:"cancellations"`
	AveragePartySize Card   `json:"average_party_size"`
}

// BuildDashboard compares the bookings of the current period with those
// of the previous one.
func BuildDashboard(current, previous []model.Booking, currency string) Dashboard {
	cur := ComputeLocationStats(current, 0, currency)
	prev := ComputeLocationStats(previous, 0, currency)
	cs, ps := Summarize(current), Summarize(previous)
	return Dashboard{
		Currency:         currency,
		Bookings:         newCard(float64(cur.TotalBookings), float64(prev.TotalBookings)),
		Guests:           newCard(float64(cur.TotalGuests), float64(prev.TotalGuests)),
		Revenue:          newCard(cur.Revenue, prev.Revenue),
		Cancellations:    newCard(float64(cur.Cancelled), float64(prev.Cancelled)),
		AveragePartySize: newCard(cs.AveragePartySize, ps.AveragePartySize),
	}
}
