package model

import "time"

// Staff roles carried in the JWT "role" claim.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// User is a portal staff account from the `users` table.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased e-mail address.
//	Name         – display name shown in the portal.
//	PasswordHash – bcrypt hash of the password.
//	Role         – ADMIN or STAFF.
//	IsActive     – inactive accounts cannot log in.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether r is a known staff role.
func ValidRole(r string) bool { return r == RoleAdmin || r == RoleStaff }

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
