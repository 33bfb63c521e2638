package booking

import (
	"sort"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// CustomerKey identifies the guest behind a booking: the lower-cased
// e-mail, or the phone number when no e-mail was given.
func CustomerKey(b model.Booking) string {
	if e := strings.ToLower(strings.TrimSpace(b.CustomerEmail)); e != "" {
		return e
	}
	return strings.TrimSpace(b.CustomerPhone)
}

// ProfileKey is CustomerKey for a stored profile.
func ProfileKey(c model.Customer) string {
	return CustomerKey(model.Booking{CustomerEmail: c.Email, CustomerPhone: c.Phone})
}

// BuildProfiles derives one customer profile per CustomerKey. Visits,
// spend and party size count non-cancelled bookings only; the history
// lists every booking, newest first. Profiles are ordered by key.
func BuildProfiles(bookings []model.Booking) []model.Customer {
	groups := make(map[string][]model.Booking)
	for _, b := range bookings {
		k := CustomerKey(b)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], b)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.Customer, 0, len(keys))
	for _, k := range keys {
		out = append(out, buildProfile(groups[k]))
	}
	return out
}

func buildProfile(bs []model.Booking) model.Customer {
	Sort(bs, DefaultSortField, Desc)
	latest := bs[0]
	c := model.Customer{
		Name:        latest.CustomerName,
		Email:       strings.ToLower(strings.TrimSpace(latest.CustomerEmail)),
		Phone:       latest.CustomerPhone,
		Status:      model.CustomerRegular,
		Preferences: []string{},
		Tags:        []string{},
		History:     make([]model.VisitSummary, 0, len(bs)),
	}
	guests := 0
	for _, b := range bs {
		c.History = append(c.History, model.VisitSummary{
			BookingID:   b.ID,
			Date:        b.BookingDate,
			Time:        b.BookingTime,
			PartySize:   b.PartySize,
			Status:      b.Status,
			TotalAmount: b.TotalAmount,
			Location:    b.LocationName,
		})
		if !b.Active() {
			continue
		}
		c.TotalVisits++
		c.TotalSpent += b.TotalAmount
		guests += b.PartySize
		if b.BookingDate > c.LastVisit {
			c.LastVisit = b.BookingDate
		}
	}
	c.TotalSpent = Round2(c.TotalSpent)
	if c.TotalVisits > 0 {
		c.AvgPartySize = Round1(float64(guests) / float64(c.TotalVisits))
	}
	return c
}

// MergeProfile refreshes the derived figures of existing from derived and
// keeps the staff-maintained fields.
func MergeProfile(existing, derived model.Customer) model.Customer {
	out := derived
	out.ID = existing.ID
	if existing.Status != "" {
		out.Status = existing.Status
	}
	out.Notes = existing.Notes
	if existing.Preferences != nil {
		out.Preferences = existing.Preferences
	}
	if existing.Tags != nil {
		out.Tags = existing.Tags
	}
	return out
}

// CustomerFilter selects customer profiles.
type CustomerFilter struct {
	Status string
	Search string
}

// Match reports whether c satisfies f.
func (f CustomerFilter) Match(c model.Customer) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(c.Name + " " + c.Email + " " + c.Phone + " " + strings.Join(c.Tags, " "))
		return strings.Contains(hay, q)
	}
	return true
}
