package model

import "time"

// Customer statuses.
const (
	CustomerRegular   = "regular"
	CustomerVIP       = "vip"
	CustomerBlacklist = "blacklist"
)

// Customer is a guest profile. Visit and spend figures are derived from
// booking history; Status, Notes, Preferences and Tags are maintained by
// staff and survive a rebuild.
type Customer struct {
	ID           uint64         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Status       string         `json:"status"`
	TotalVisits  int            `json:"total_visits"`
	TotalSpent   float64        `json:"total_spent"`
	AvgPartySize float64        `json:"avg_party_size"`
	LastVisit    string         `json:"last_visit"`
	Notes        string         `json:"notes"`
	Preferences  []string       `json:"preferences"`
	Tags         []string       `json:"tags"`
	History      []VisitSummary `json:"history"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// VisitSummary is a compact view of one past booking.
type VisitSummary struct {
	BookingID   uint64        `json:"booking_id"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	PartySize   int           `json:"party_size"`
	Status      BookingStatus `json:"status"`
	TotalAmount float64       `json:"total_amount"`
	Location    string        `json:"location"`
}

// ValidCustomerStatus reports whether s is a known customer status.
func ValidCustomerStatus(s string) bool {
	return s == CustomerRegular || s == CustomerVIP || s == CustomerBlacklist
}
