package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrTableNotFound is returned when a table lookup fails.
var ErrTableNotFound = errors.New("table not found")

// TableRepo provides CRUD access to the tables table.  Each table has a
// unique (restaurant_id, x_position, y_position) key; violating it
// surfaces as ErrConflict.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *TableRepo) DB() *sql.DB { return r.db }

const tableCols = `id, restaurant_id, x_position, y_position, min_chairs, max_chairs, is_active, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
	var t model.Table
	err := row.Scan(&t.ID, &t.RestaurantID, &t.XPosition, &t.YPosition,
		&t.MinChairs, &t.MaxChairs, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new table and reads the row back.  A duplicate
// floor position returns ErrConflict.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (restaurant_id, x_position, y_position, min_chairs, max_chairs, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.RestaurantID, t.XPosition, t.YPosition, t.MinChairs, t.MaxChairs, t.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	created, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// GetByID returns a table by primary key or ErrTableNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	return t, err
}

// ListByRestaurant returns all tables of a restaurant ordered by
// position.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]*model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE restaurant_id = ? ORDER BY y_position, x_position`,
		restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update persists the mutable fields of a table.  Moving it onto an
// occupied floor position returns ErrConflict.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables
	           SET x_position = ?, y_position = ?, min_chairs = ?, max_chairs = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		t.XPosition, t.YPosition, t.MinChairs, t.MaxChairs, t.IsActive, t.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a table and its reservations via cascade.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// LockTx takes a row lock on the table inside the given transaction,
// serializing concurrent reservation writers per table.  It returns
// ErrTableNotFound when the table does not exist.
func (r *TableRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM tables WHERE id = ? FOR UPDATE`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTableNotFound
	}
	return err
}
