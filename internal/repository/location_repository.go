package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// LocationRepo wraps database access for venue records.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo returns a new LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

const locationColumns = `id, name, address, phone, email, capacity, status, created_at, updated_at`

func scanLocation(rs rowScanner) (model.Location, error) {
	var l model.Location
	err := rs.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.Email, &l.Capacity, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create inserts a location and reads back the stored row so defaults and
// timestamps are populated.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (name, address, phone, email, capacity, status) VALUES (?,?,?,?,?,?)`,
		l.Name, l.Address, l.Phone, l.Email, l.Capacity, l.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.Get(ctx, uint64(id))
	if err != nil {
		return err
	}
	*l = *got
	return nil
}

// Get returns a location by id or ErrLocationNotFound.
func (r *LocationRepo) Get(ctx context.Context, id uint64) (*model.Location, error) {
	l, err := scanLocation(r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id=?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns all locations ordered by name; activeOnly hides inactive
// and private venues.
func (r *LocationRepo) List(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	q := `SELECT ` + locationColumns + ` FROM locations`
	var args []any
	if activeOnly {
		q += ` WHERE status = ?`
		args = append(args, model.LocationActive)
	}
	q += ` ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of a location.
func (r *LocationRepo) Update(ctx context.Context, l *model.Location) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE locations SET name=?, address=?, phone=?, email=?, capacity=?, status=? WHERE id=?`,
		l.Name, l.Address, l.Phone, l.Email, l.Capacity, l.Status, l.ID); err != nil {
		return err
	}
	got, err := r.Get(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *got
	return nil
}

// Delete removes a location; its tables go with it via ON DELETE CASCADE.
// Bookings keep their location_id and cached location_name.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}
