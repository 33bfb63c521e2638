package config

import (
	"strings"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/booking"
)

// BookingConfig carries the business rules of the booking core.
type BookingConfig struct {
	Slots           booking.SlotPolicy
	DefaultTime     string // substitute for an unparseable time in lenient mode
	StrictInput     bool   // reject unparseable dates/times instead of substituting
	Currency        string
	DefaultCapacity int  // seat count assumed for a location nobody has configured
	SeedDemo        bool // fill an empty store with demo bookings on startup
	Timezone        *time.Location
}

// LoadBookingConfig reads the BOOKING_* and SLOT_* variables.
func LoadBookingConfig() BookingConfig {
	def := booking.DefaultSlotPolicy()
	tz, err := time.LoadLocation(envStr("BOOKING_TIMEZONE", "UTC"))
	if err != nil {
		tz = time.UTC
	}
	return BookingConfig{
		Slots: booking.SlotPolicy{
			Start:           envStr("SLOT_START", def.Start),
			End:             envStr("SLOT_END", def.End),
			Interval:        envDur("SLOT_INTERVAL", def.Interval),
			MinParties:      envInt("SLOT_MIN_PARTIES", def.MinParties),
			MaxAlternatives: envInt("SLOT_ALTERNATIVES", def.MaxAlternatives),
		},
		DefaultTime:     envStr("BOOKING_DEFAULT_TIME", booking.DefaultTime),
		StrictInput:     envBool("BOOKING_STRICT_INPUT", false),
		Currency:        strings.ToUpper(envStr("BOOKING_CURRENCY", "USD")),
		DefaultCapacity: envInt("LOCATION_DEFAULT_CAPACITY", 40),
		SeedDemo:        envBool("SEED_DEMO", false),
		Timezone:        tz,
	}
}
