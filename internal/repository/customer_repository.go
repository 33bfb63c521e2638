package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// CustomerRepo stores CRM profiles in `customers`. Rows are keyed by
// lookup_key (lower-cased e-mail, or phone) so a rebuild can upsert them.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = `id, name, email, phone, status, total_visits, total_spent, avg_party_size,
	last_visit, COALESCE(notes, ''), preferences, tags, history, updated_at`

func scanCustomer(rs rowScanner) (model.Customer, error) {
	var c model.Customer
	var prefs, tags, history []byte
	if err := rs.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.TotalVisits, &c.TotalSpent,
		&c.AvgPartySize, &c.LastVisit, &c.Notes, &prefs, &tags, &history, &c.UpdatedAt); err != nil {
		return c, err
	}
	c.Preferences = decodeStrings(prefs)
	c.Tags = decodeStrings(tags)
	c.History = []model.VisitSummary{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &c.History); err != nil {
			return c, err
		}
	}
	return c, nil
}

func decodeStrings(bs []byte) []string {
	out := []string{}
	if len(bs) > 0 {
		_ = json.Unmarshal(bs, &out)
	}
	return out
}

func encodeJSON(v any) string {
	bs, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(bs)
}

// List returns every profile ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns one profile or ErrCustomerNotFound.
func (r *CustomerRepo) Get(ctx context.Context, id uint64) (*model.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Upsert inserts c or refreshes the row with the same lookup key, and sets
// c.ID. Staff-maintained fields are written as given, so callers merge
// them first.
func (r *CustomerRepo) Upsert(ctx context.Context, c *model.Customer) error {
	key := booking.ProfileKey(*c)
	const q = `INSERT INTO customers (lookup_key, name, email, phone, status, total_visits, total_spent,
		avg_party_size, last_visit, notes, preferences, tags, history)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE id=LAST_INSERT_ID(id), name=VALUES(name), email=VALUES(email),
		phone=VALUES(phone), status=VALUES(status), total_visits=VALUES(total_visits),
		total_spent=VALUES(total_spent), avg_party_size=VALUES(avg_party_size),
		last_visit=VALUES(last_visit), notes=VALUES(notes), preferences=VALUES(preferences),
		tags=VALUES(tags), history=VALUES(history)`
	res, err := r.db.ExecContext(ctx, q, key, c.Name, c.Email, c.Phone, c.Status, c.TotalVisits,
		c.TotalSpent, c.AvgPartySize, c.LastVisit, c.Notes, encodeJSON(c.Preferences),
		encodeJSON(c.Tags), encodeJSON(c.History))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// UpdateProfile writes the staff-maintained fields of one profile.
func (r *CustomerRepo) UpdateProfile(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET status=?, notes=?, preferences=?, tags=? WHERE id=?`,
		c.Status, c.Notes, encodeJSON(c.Preferences), encodeJSON(c.Tags), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.Get(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}
