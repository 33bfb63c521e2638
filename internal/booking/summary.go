package booking

import (
	"math"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Summary counts bookings per status and reports guest totals.
type Summary struct {
	Pending          int     `json:"pending"`
	Confirmed        int     `json:"confirmed"`
	Completed        int     `json:"completed"`
	Cancelled        int     `json:"cancelled"`
	Total            int     `json:"total"`
	TotalGuests      int     `json:"total_guests"`
	AveragePartySize float64 `json:"average_party_size"`
}

// Summarize builds a Summary over bookings.
func Summarize(bookings []model.Booking) Summary {
	var s Summary
	for _, b := range bookings {
		switch b.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusConfirmed:
			s.Confirmed++
		case model.StatusCompleted:
			s.Completed++
		case model.StatusCancelled:
			s.Cancelled++
		}
		s.Total++
		s.TotalGuests += b.PartySize
	}
	if s.Total > 0 {
		s.AveragePartySize = Round1(float64(s.TotalGuests) / float64(s.Total))
	}
	return s
}

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 { return math.Round(x*10) / 10 }

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 { return math.Round(x*100) / 100 }

// Query is a complete list request: filter, sort and page.
type Query struct {
	Filter
	Page      int
	PageSize  int
	SortBy    string
	SortOrder Order
}

// Result is the answer to a Query.
type Result struct {
	Page
	Summary Summary `json:"summary"`
}

// Run applies q to all and returns the requested page. The summary covers
// every booking matching q except for its status clause.
func Run(all []model.Booking, q Query) Result {
	scoped := Apply(all, q.Filter.WithoutStatus())
	summary := Summarize(scoped)

	matched := scoped
	if q.Status != "" {
		matched = Apply(scoped, Filter{Status: q.Status})
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = DefaultSortField
	}
	order := q.SortOrder
	if order == "" {
		order = Desc
	}
	Sort(matched, sortBy, order)

	return Result{Page: Paginate(matched, q.Page, q.PageSize), Summary: summary}
}
