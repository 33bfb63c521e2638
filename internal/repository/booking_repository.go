package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// BookingRepo stores bookings in the MySQL `bookings` table. Each write
// touches a single row; slot capacity is enforced inside one transaction
// that serializes on the slot's row in `booking_slots`.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference, status, booking_date, booking_time, party_size, location_id,
	location_name, table_number, customer_name, customer_email, customer_phone,
	COALESCE(special_requests, ''), total_amount, source, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(rs rowScanner) (model.Booking, error) {
	var b model.Booking
	var status string
	err := rs.Scan(&b.ID, &b.Reference, &status, &b.BookingDate, &b.BookingTime, &b.PartySize,
		&b.LocationID, &b.LocationName, &b.TableNumber, &b.CustomerName, &b.CustomerEmail,
		&b.CustomerPhone, &b.SpecialRequests, &b.TotalAmount, &b.Source, &b.CreatedAt, &b.UpdatedAt)
	b.Status = model.BookingStatus(status)
	return b, err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertBooking(ctx context.Context, ex execer, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, status, booking_date, booking_time, party_size,
		location_id, location_name, table_number, customer_name, customer_email, customer_phone,
		special_requests, total_amount, source, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := ex.ExecContext(ctx, q, b.Reference, string(b.Status), b.BookingDate, b.BookingTime,
		b.PartySize, b.LocationID, b.LocationName, b.TableNumber, b.CustomerName, b.CustomerEmail,
		b.CustomerPhone, b.SpecialRequests, b.TotalAmount, b.Source, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// Create inserts b without any capacity check and sets its id.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return insertBooking(ctx, r.db, b)
}

// CreateWithinCapacity inserts b only while its slot holds fewer than
// slotCapacity active bookings. The slot row is created on first use and
// then locked FOR UPDATE, so concurrent submissions for the same slot
// queue behind each other and the count they see is current.
func (r *BookingRepo) CreateWithinCapacity(ctx context.Context, b *model.Booking, slotCapacity int) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT IGNORE INTO booking_slots (location_id, booking_date, booking_time) VALUES (?,?,?)`,
		b.LocationID, b.BookingDate, b.BookingTime); err != nil {
		return err
	}
	var locked uint64
	if err = tx.QueryRowContext(ctx,
		`SELECT location_id FROM booking_slots WHERE location_id=? AND booking_date=? AND booking_time=? FOR UPDATE`,
		b.LocationID, b.BookingDate, b.BookingTime).Scan(&locked); err != nil {
		return err
	}

	var taken int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE location_id=? AND booking_date=? AND booking_time=? AND status <> ?`,
		b.LocationID, b.BookingDate, b.BookingTime, string(model.StatusCancelled)).Scan(&taken); err != nil {
		return err
	}
	if taken >= slotCapacity {
		return ErrSlotFull
	}

	if err = insertBooking(ctx, tx, b); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get fetches a booking by id.
func (r *BookingRepo) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id=? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// UpdateStatus sets status and updated_at on one booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status=?, updated_at=? WHERE id=?`, string(status), at, id)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when nothing changed, so check
	// existence before calling it a miss.
	if n, _ := res.RowsAffected(); n == 0 {
		ok, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBookingNotFound
		}
	}
	return nil
}

// Delete removes a booking permanently.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// filterClause translates a booking.Filter into a WHERE clause with the
// same semantics as booking.Filter.Match.
func filterClause(f booking.Filter) (string, []any) {
	where := []string{}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.LocationID != 0 {
		where = append(where, "location_id = ?")
		args = append(args, f.LocationID)
	}
	if f.DateFrom != "" {
		where = append(where, "booking_date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "booking_date <= ?")
		args = append(args, f.DateTo)
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		where = append(where, "LOWER(CONCAT_WS(' ', customer_name, customer_email, customer_phone)) LIKE ? ESCAPE '!'")
		args = append(args, "%"+escapeLike(q)+"%")
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// Find returns the bookings matching f ordered by id.
func (r *BookingRepo) Find(ctx context.Context, f booking.Filter) ([]model.Booking, error) {
	cond, args := filterClause(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+cond+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}
