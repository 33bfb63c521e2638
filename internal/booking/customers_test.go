package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

func TestBuildProfiles(t *testing.T) {
	bs := []model.Booking{
		{ID: 1, CustomerName: "Ada L", CustomerEmail: "ADA@example.com", BookingDate: "2024-04-01", BookingTime: "18:00", PartySize: 2, TotalAmount: 80, Status: model.StatusCompleted},
		{ID: 2, CustomerName: "Ada Lovelace", CustomerEmail: "ada@example.com", BookingDate: "2024-05-01", BookingTime: "19:00", PartySize: 4, TotalAmount: 120, Status: model.StatusConfirmed},
		{ID: 3, CustomerName: "Ada Lovelace", CustomerEmail: "ada@example.com", BookingDate: "2024-06-01", BookingTime: "19:00", PartySize: 8, TotalAmount: 300, Status: model.StatusCancelled},
		{ID: 4, CustomerName: "Walk In", CustomerPhone: "555-1234", BookingDate: "2024-05-02", BookingTime: "17:00", PartySize: 3, Status: model.StatusCompleted},
		{ID: 5, CustomerName: "Anonymous", BookingDate: "2024-05-02", BookingTime: "17:00", PartySize: 3},
	}

	profiles := BuildProfiles(bs)
	require.Len(t, profiles, 2)

	ada := profiles[1]
	assert.Equal(t, "ada@example.com", ada.Email)
	assert.Equal(t, "Ada Lovelace", ada.Name)
	assert.Equal(t, 2, ada.TotalVisits)
	assert.Equal(t, 200.0, ada.TotalSpent)
	assert.Equal(t, 3.0, ada.AvgPartySize)
	assert.Equal(t, "2024-05-01", ada.LastVisit)
	assert.Equal(t, model.CustomerRegular, ada.Status)
	require.Len(t, ada.History, 3)
	assert.Equal(t, uint64(3), ada.History[0].BookingID)

	walkIn := profiles[0]
	assert.Equal(t, "555-1234", walkIn.Phone)
	assert.Equal(t, 1, walkIn.TotalVisits)
}

func TestMergeProfile_KeepsStaffFields(t *testing.T) {
	existing := model.Customer{ID: 9, Status: model.CustomerVIP, Notes: "allergic to nuts", Tags: []string{"regular-friday"}, TotalVisits: 1}
	derived := model.Customer{Email: "a@b.c", TotalVisits: 5, Status: model.CustomerRegular, Tags: []string{}, Preferences: []string{}}

	got := MergeProfile(existing, derived)

	assert.Equal(t, uint64(9), got.ID)
	assert.Equal(t, model.CustomerVIP, got.Status)
	assert.Equal(t, "allergic to nuts", got.Notes)
	assert.Equal(t, []string{"regular-friday"}, got.Tags)
	assert.Equal(t, []string{}, got.Preferences)
	assert.Equal(t, 5, got.TotalVisits)
}

func TestCustomerFilter(t *testing.T) {
	c := model.Customer{Name: "Grace Hopper", Email: "grace@navy.mil", Status: model.CustomerVIP, Tags: []string{"cobol"}}
	assert.True(t, CustomerFilter{}.Match(c))
	assert.True(t, CustomerFilter{Status: model.CustomerVIP, Search: "COBOL"}.Match(c))
	assert.False(t, CustomerFilter{Status: model.CustomerBlacklist}.Match(c))
	assert.False(t, CustomerFilter{Search: "turing"}.Match(c))
}

func TestMonthRangeAndGroupByDate(t *testing.T) {
	from, to, err := MonthRange(2, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-02-29", to)

	_, _, err = MonthRange(13, 2024)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	days := GroupByDate([]model.Booking{
		{ID: 1, BookingDate: "2024-02-03", BookingTime: "20:00"},
		{ID: 2, BookingDate: "2024-02-03", BookingTime: "17:30"},
		{ID: 3, BookingDate: "2024-02-10", BookingTime: "19:00"},
	})
	require.Len(t, days, 2)
	assert.Equal(t, 2, days["2024-02-03"].Count)
	assert.Equal(t, []uint64{2, 1}, ids(days["2024-02-03"].Bookings))
}

func TestDemoBookings(t *testing.T) {
	today := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	locs := []model.Location{{ID: 1, Name: "Downtown"}, {ID: 2, Name: "Harbour"}}

	bs := DemoBookings(today, locs, DefaultSlotPolicy())

	require.Len(t, bs, 15*2*3)
	for _, b := range bs {
		assert.True(t, b.Status.Valid())
		_, ok := ParseDate(b.BookingDate)
		assert.True(t, ok)
		assert.True(t, DefaultSlotPolicy().Contains(b.BookingTime))
		assert.Positive(t, b.PartySize)
	}
	assert.Nil(t, DemoBookings(today, nil, DefaultSlotPolicy()))
}
