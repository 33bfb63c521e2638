package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

var demoGuests = []struct{ first, last, phone string }{
	{"Olivia", "Martin", "+1 555 0101"},
	{"Liam", "Garcia", "+1 555 0102"},
	{"Emma", "Rossi", "+1 555 0103"},
	{"Noah", "Schmidt", "+1 555 0104"},
	{"Ava", "Dubois", "+1 555 0105"},
	{"Lucas", "Novak", "+1 555 0106"},
	{"Mia", "Tanaka", "+1 555 0107"},
	{"Ethan", "Kowalski", "+1 555 0108"},
}

var demoRequests = []string{"", "Window seat please", "", "Birthday dinner", "", "High chair needed"}

// DemoBookings builds a deterministic sample dataset around today: a
// week of past bookings and a week of upcoming ones for each location.
func DemoBookings(today time.Time, locations []model.Location, policy SlotPolicy) []model.Booking {
	if len(locations) == 0 {
		return nil
	}
	times := policy.Times()
	var out []model.Booking
	i := 0
	for day := -7; day <= 7; day++ {
		date := today.AddDate(0, 0, day).Format(DateLayout)
		for li, loc := range locations {
			for k := 0; k < 3; k++ {
				g := demoGuests[(i+li)%len(demoGuests)]
				party := 2 + (i % 5)
				status := model.StatusConfirmed
				switch {
				case day < 0 && i%6 == 0:
					status = model.StatusCancelled
				case day < 0:
					status = model.StatusCompleted
				case i%4 == 0:
					status = model.StatusPending
				}
				out = append(out, model.Booking{
					Status:          status,
					BookingDate:     date,
					BookingTime:     times[(i*3+k)%len(times)],
					PartySize:       party,
					LocationID:      loc.ID,
					LocationName:    loc.Name,
					TableNumber:     fmt.Sprintf("T%d", 1+(i+k)%8),
					CustomerName:    g.first + " " + g.last,
					CustomerEmail:   strings.ToLower(g.first+"."+g.last) + "@example.com",
					CustomerPhone:   g.phone,
					SpecialRequests: demoRequests[i%len(demoRequests)],
					TotalAmount:     float64(party) * 42.5,
					Source:          model.SourceDemo,
				})
				i++
			}
		}
	}
	return out
}
