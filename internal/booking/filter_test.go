package booking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

func sampleBookings() []model.Booking {
	return []model.Booking{
		{ID: 1, Status: model.StatusPending, BookingDate: "2024-05-01", BookingTime: "18:00", PartySize: 2, LocationID: 1, CustomerName: "Ada Lovelace", CustomerEmail: "ada@example.com", CustomerPhone: "555-0100", TableNumber: "T2"},
		{ID: 2, Status: model.StatusConfirmed, BookingDate: "2024-05-02", BookingTime: "19:30", PartySize: 6, LocationID: 1, CustomerName: "Grace Hopper", CustomerEmail: "grace@navy.mil", CustomerPhone: "555-0200", TableNumber: "T1"},
		{ID: 3, Status: model.StatusCancelled, BookingDate: "2024-05-03", BookingTime: "17:00", PartySize: 4, LocationID: 2, CustomerName: "Alan Turing", CustomerEmail: "alan@bletchley.uk", CustomerPhone: "555-0300"},
		{ID: 4, Status: model.StatusPending, BookingDate: "2024-05-03", BookingTime: "20:00", PartySize: 3, LocationID: 1, CustomerName: "Edsger Dijkstra", CustomerEmail: "ewd@utexas.edu", CustomerPhone: "555-0400", TableNumber: "T3"},
		{ID: 5, Status: model.StatusCompleted, BookingDate: "2024-04-30", BookingTime: "18:30", PartySize: 5, LocationID: 2, CustomerName: "Barbara Liskov", CustomerEmail: "liskov@mit.edu", CustomerPhone: "555-0500"},
	}
}

func ids(bs []model.Booking) []uint64 {
	out := make([]uint64, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []uint64
	}{
		{"empty filter keeps all", Filter{}, []uint64{1, 2, 3, 4, 5}},
		{"status", Filter{Status: model.StatusPending}, []uint64{1, 4}},
		{"location", Filter{LocationID: 2}, []uint64{3, 5}},
		{"date range inclusive", Filter{DateFrom: "2024-05-01", DateTo: "2024-05-02"}, []uint64{1, 2}},
		{"date from only", Filter{DateFrom: "2024-05-03"}, []uint64{3, 4}},
		{"search name case-insensitive", Filter{Search: "GRACE"}, []uint64{2}},
		{"search email", Filter{Search: "mit.edu"}, []uint64{5}},
		{"search phone", Filter{Search: "0300"}, []uint64{3}},
		{"clauses combine", Filter{Status: model.StatusPending, LocationID: 1, DateFrom: "2024-05-02"}, []uint64{4}},
		{"no match", Filter{Search: "nobody"}, []uint64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sampleBookings(), tt.filter)))
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		name  string
		field string
		order Order
		want  []uint64
	}{
		{"datetime asc", "booking_datetime", Asc, []uint64{5, 1, 2, 3, 4}},
		{"datetime desc", "booking_datetime", Desc, []uint64{4, 3, 2, 1, 5}},
		{"party size numeric", "party_size", Asc, []uint64{1, 4, 3, 5, 2}},
		{"customer name", "customer_name", Asc, []uint64{1, 3, 5, 4, 2}},
		{"status keeps ties stable", "status", Asc, []uint64{3, 5, 2, 1, 4}},
		{"table number", "table_number", Asc, []uint64{3, 5, 2, 1, 4}},
		{"unknown field falls back to datetime", "nope", Asc, []uint64{5, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := sampleBookings()
			Sort(bs, tt.field, tt.order)
			assert.Equal(t, tt.want, ids(bs))
		})
	}
}

func TestPaginate_Clamps(t *testing.T) {
	bs := sampleBookings()

	p := Paginate(bs, 99, 2)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 3, p.CurrentPage)
	assert.Equal(t, []uint64{5}, ids(p.Bookings))

	p = Paginate(bs, -4, 500)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Len(t, p.Bookings, 5)

	p = Paginate(bs, 1, 0)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = Paginate(nil, 3, 10)
	assert.Equal(t, 0, p.TotalItems)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.NotNil(t, p.Bookings)
}

func TestPaginate_PagesReassembleSortedSet(t *testing.T) {
	var all []model.Booking
	for i := 1; i <= 47; i++ {
		all = append(all, model.Booking{ID: uint64(i), BookingDate: fmt.Sprintf("2024-06-%02d", i%28+1), BookingTime: "18:00"})
	}
	for _, size := range []int{1, 5, 10, 47, 100} {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			sorted := append([]model.Booking(nil), all...)
			Sort(sorted, DefaultSortField, Asc)

			first := Paginate(sorted, 1, size)
			assert.Equal(t, (len(all)+size-1)/size, first.TotalPages)

			var joined []model.Booking
			for page := 1; page <= first.TotalPages; page++ {
				joined = append(joined, Paginate(sorted, page, size).Bookings...)
			}
			assert.Equal(t, ids(sorted), ids(joined))
		})
	}
}

func TestRun_StatusFilterWithSummary(t *testing.T) {
	bs := []model.Booking{
		{ID: 1, Status: model.StatusPending, BookingDate: "2024-05-10", BookingTime: "18:00", PartySize: 2, LocationID: 1},
		{ID: 2, Status: model.StatusPending, BookingDate: "2024-05-10", BookingTime: "18:30", PartySize: 4, LocationID: 1},
		{ID: 3, Status: model.StatusConfirmed, BookingDate: "2024-05-10", BookingTime: "19:00", PartySize: 3, LocationID: 1},
		{ID: 4, Status: model.StatusCancelled, BookingDate: "2024-05-10", BookingTime: "19:30", PartySize: 5, LocationID: 1},
	}

	res := Run(bs, Query{Filter: Filter{Status: model.StatusPending}, Page: 1, PageSize: 10})

	require.Len(t, res.Bookings, 2)
	assert.ElementsMatch(t, []uint64{1, 2}, ids(res.Bookings))
	assert.Equal(t, 2, res.TotalItems)
	assert.Equal(t, 2, res.Summary.Pending)
	assert.Equal(t, 1, res.Summary.Confirmed)
	assert.Equal(t, 1, res.Summary.Cancelled)
	assert.Equal(t, 0, res.Summary.Completed)
	assert.Equal(t, 14, res.Summary.TotalGuests)
	assert.Equal(t, 3.5, res.Summary.AveragePartySize)
}

func TestRun_DefaultsToNewestFirst(t *testing.T) {
	res := Run(sampleBookings(), Query{})
	assert.Equal(t, []uint64{4, 3, 2, 1, 5}, ids(res.Bookings))
	assert.Equal(t, DefaultPageSize, res.PageSize)
}

func TestClampPageSize(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, DefaultPageSize},
		{0, DefaultPageSize},
		{1, 1},
		{100, 100},
		{101, MaxPageSize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPageSize(tt.in), "size %d", tt.in)
	}
}
