package booking

import (
	"sort"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Slot status labels.
const (
	SlotAvailable = "available"
	SlotLimited   = "limited"
	SlotFull      = "full"
)

// SlotPolicy describes the service window and the heuristic capacity model.
type SlotPolicy struct {
	Start           string        // first slot, HH:MM
	End             string        // last slot, HH:MM, inclusive
	Interval        time.Duration // distance between slots
	MinParties      int           // floor on concurrent parties per slot
	MaxAlternatives int
}

// DefaultSlotPolicy is the 17:00-21:00 half-hourly window with a floor of
// four parties per slot.
func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{
		Start:           "17:00",
		End:             "21:00",
		Interval:        30 * time.Minute,
		MinParties:      4,
		MaxAlternatives: 3,
	}
}

// WithDefaults fills unset or invalid fields from DefaultSlotPolicy.
func (p SlotPolicy) WithDefaults() SlotPolicy {
	d := DefaultSlotPolicy()
	if _, ok := minutes(p.Start); !ok {
		p.Start = d.Start
	}
	if _, ok := minutes(p.End); !ok {
		p.End = d.End
	}
	if p.Interval < time.Minute {
		p.Interval = d.Interval
	}
	if p.MinParties < 1 {
		p.MinParties = d.MinParties
	}
	if p.MaxAlternatives <= 0 {
		p.MaxAlternatives = d.MaxAlternatives
	}
	return p
}

// Times lists the canonical slot times of the window in order.
func (p SlotPolicy) Times() []string {
	p = p.WithDefaults()
	start, _ := minutes(p.Start)
	end, _ := minutes(p.End)
	step := int(p.Interval / time.Minute)

	var out []string
	for m := start; m <= end; m += step {
		out = append(out, clock(m))
	}
	return out
}

// Contains reports whether hhmm is one of the policy's slot times.
func (p SlotPolicy) Contains(hhmm string) bool {
	for _, t := range p.Times() {
		if t == hhmm {
			return true
		}
	}
	return false
}

// Snap rounds hhmm down onto the slot grid anchored at Start. ok is false
// when hhmm was not already on the grid or is not a canonical time.
func (p SlotPolicy) Snap(hhmm string) (snapped string, ok bool) {
	p = p.WithDefaults()
	m, valid := minutes(hhmm)
	if !valid {
		return hhmm, false
	}
	start, _ := minutes(p.Start)
	step := int(p.Interval / time.Minute)
	off := (m - start) % step
	if off < 0 {
		off += step
	}
	if off == 0 {
		return hhmm, true
	}
	m -= off
	if m < 0 {
		m += step
	}
	return clock(m), false
}

// SlotCapacity splits a location's seats into parties of roughly
// partySize (never fewer than two seats each), with a floor of minParties.
func SlotCapacity(locationCapacity, partySize, minParties int) int {
	if partySize < 2 {
		partySize = 2
	}
	if locationCapacity < 0 {
		locationCapacity = 0
	}
	c := locationCapacity / partySize
	if c < minParties {
		return minParties
	}
	return c
}

// TimeSlot is a derived, never persisted, bookable window.
type TimeSlot struct {
	Time              string `json:"time"`
	Label             string `json:"label"`
	Available         bool   `json:"available"`
	AvailableCapacity int    `json:"available_capacity"`
	Capacity          int    `json:"capacity"`
	Booked            int    `json:"booked"`
	Status            string `json:"status"`
}

// SlotAvailability is the answer to a slot query for one date.
type SlotAvailability struct {
	Date             string     `json:"date"`
	PartySize        int        `json:"party_size"`
	AvailableSlots   []TimeSlot `json:"available_slots"`
	AlternativeSlots []TimeSlot `json:"alternative_slots"`
	Requested        *TimeSlot  `json:"requested,omitempty"`
}

// ActiveAt counts non-cancelled bookings whose time equals hhmm.
func ActiveAt(bookings []model.Booking, hhmm string) int {
	n := 0
	for _, b := range bookings {
		if b.Active() && b.BookingTime == hhmm {
			n++
		}
	}
	return n
}

func slotLabel(hhmm string) string {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

func slotStatus(remaining, capacity int) string {
	switch {
	case remaining <= 0:
		return SlotFull
	case remaining*10 < capacity*3:
		return SlotLimited
	}
	return SlotAvailable
}

// GenerateSlots computes availability for date from the bookings already
// made there. bookings may span other dates or locations; only those on
// date count. requested, when set, is excluded from the alternatives,
// which are then ordered by distance from it.
func GenerateSlots(date string, bookings []model.Booking, locationCapacity, partySize int, requested string, p SlotPolicy) SlotAvailability {
	p = p.WithDefaults()
	capacity := SlotCapacity(locationCapacity, partySize, p.MinParties)

	sameDay := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.BookingDate == date {
			sameDay = append(sameDay, b)
		}
	}

	out := SlotAvailability{
		Date:             date,
		PartySize:        partySize,
		AvailableSlots:   []TimeSlot{},
		AlternativeSlots: []TimeSlot{},
	}
	for _, t := range p.Times() {
		booked := ActiveAt(sameDay, t)
		remaining := capacity - booked
		if remaining < 0 {
			remaining = 0
		}
		slot := TimeSlot{
			Time:              t,
			Label:             slotLabel(t),
			Available:         remaining > 0,
			AvailableCapacity: remaining,
			Capacity:          capacity,
			Booked:            booked,
			Status:            slotStatus(remaining, capacity),
		}
		out.AvailableSlots = append(out.AvailableSlots, slot)
		if t == requested {
			s := slot
			out.Requested = &s
		}
	}

	out.AlternativeSlots = alternatives(out.AvailableSlots, requested, p.MaxAlternatives)
	return out
}

func alternatives(slots []TimeSlot, requested string, limit int) []TimeSlot {
	cands := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Available && s.Time != requested {
			cands = append(cands, s)
		}
	}
	if want, ok := minutes(requested); ok {
		dist := func(s TimeSlot) int {
			m, _ := minutes(s.Time)
			if m < want {
				return want - m
			}
			return m - want
		}
		sort.SliceStable(cands, func(i, j int) bool { return dist(cands[i]) < dist(cands[j]) })
	}
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}
