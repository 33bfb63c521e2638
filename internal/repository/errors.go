// Package repository implements the storage layer: MySQL stores built on
// database/sql, plus in-memory stores with the same contracts used when no
// database is provisioned. The sentinel errors below let services and
// handlers tell failure kinds apart with errors.Is.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrBookingNotFound is returned for an unknown booking id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSlotFull is returned by CreateWithinCapacity when the slot already
	// holds its maximum number of active bookings. Handlers translate it
	// into HTTP 409.
	ErrSlotFull = errors.New("time slot is fully booked")

	ErrLocationNotFound = errors.New("location not found")
	ErrTableNotFound    = errors.New("table not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrEmailExists signals a duplicate staff e-mail.
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidToken covers unknown, expired and revoked refresh tokens.
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrConflict is returned when a write clashes with existing state,
	// such as two tables with the same label at one location.
	ErrConflict = errors.New("conflict")
)

// isDuplicateKey reports a MySQL unique-constraint violation (error 1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
