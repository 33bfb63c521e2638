package model

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// AllStatuses lists every valid status in display order.
var AllStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(raw string) (BookingStatus, bool) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Booking mirrors a row of the `bookings` table. BookingDate and BookingTime
// are always stored in canonical YYYY-MM-DD and HH:MM form so that plain
// string comparison orders them chronologically.
type Booking struct {
	ID              uint64        `json:"id"`
	Reference       string        `json:"reference"`
	Status          BookingStatus `json:"status"`
	BookingDate     string        `json:"booking_date"`
	BookingTime     string        `json:"booking_time"`
	PartySize       int           `json:"party_size"`
	LocationID      uint64        `json:"location_id"`
	LocationName    string        `json:"location_name"`
	TableNumber     string        `json:"table_number"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	SpecialRequests string        `json:"special_requests"`
	TotalAmount     float64       `json:"total_amount"`
	Source          string        `json:"source"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// DateTime is the composite sort key "YYYY-MM-DD HH:MM".
func (b Booking) DateTime() string { return b.BookingDate + " " + b.BookingTime }

// Active is false only for cancelled bookings; every other status holds capacity.
func (b Booking) Active() bool { return b.Status != StatusCancelled }

// Booking sources.
const (
	SourceWidget = "widget"
	SourcePortal = "portal"
	SourceDemo   = "demo"
)
