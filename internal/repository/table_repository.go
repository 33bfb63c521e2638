package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// TableRepo stores floor-plan tables in `restaurant_tables`.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, location_id, label, capacity, status, shape, pos_x, pos_y, width, height, rotation`

// ListByLocation returns the tables of a location ordered by label.
func (r *TableRepo) ListByLocation(ctx context.Context, locationID uint64) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tableColumns+` FROM restaurant_tables WHERE location_id=? ORDER BY label, id`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.LocationID, &t.Label, &t.Capacity, &t.Status, &t.Shape,
			&t.X, &t.Y, &t.Width, &t.Height, &t.Rotation); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountByLocation returns how many tables a location has.
func (r *TableRepo) CountByLocation(ctx context.Context, locationID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurant_tables WHERE location_id=?`, locationID).Scan(&n)
	return n, err
}

// SaveLayout replaces the floor plan of a location in one transaction.
// Tables whose id already belongs to the location keep it; all others get
// a fresh id. Tables missing from the new layout are removed.
func (r *TableRepo) SaveLayout(ctx context.Context, locationID uint64, tables []model.Table) ([]model.Table, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	owned := map[uint64]bool{}
	rows, err := tx.QueryContext(ctx, `SELECT id FROM restaurant_tables WHERE location_id=? FOR UPDATE`, locationID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		owned[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM restaurant_tables WHERE location_id=?`, locationID); err != nil {
		return nil, err
	}

	out := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		t.LocationID = locationID
		var id any
		if owned[t.ID] {
			id = t.ID
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO restaurant_tables (id, `+tableColumns[4:]+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			id, t.LocationID, t.Label, t.Capacity, t.Status, t.Shape, t.X, t.Y, t.Width, t.Height, t.Rotation)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, ErrConflict
			}
			return nil, err
		}
		if id == nil {
			newID, err := res.LastInsertId()
			if err != nil {
				return nil, err
			}
			t.ID = uint64(newID)
		}
		out = append(out, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return out, nil
}

// UpdateStatus changes the live status of one table.
func (r *TableRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE restaurant_tables SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM restaurant_tables WHERE id=?`, id).Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return ErrTableNotFound
			}
			return err
		}
	}
	return nil
}
