package model

import "time"

// Location statuses.
const (
	LocationActive   = "active"
	LocationInactive = "inactive"
	LocationPrivate  = "private"
)

// Location represents a dining venue stored in the `locations` table.
// Capacity is the seat count used by the slot generator.
type Location struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidLocationStatus reports whether s is a known location status.
func ValidLocationStatus(s string) bool {
	return s == LocationActive || s == LocationInactive || s == LocationPrivate
}
