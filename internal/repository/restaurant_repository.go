package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrRestaurantNotFound is returned when a restaurant lookup fails.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantRepo provides CRUD access to the restaurants table.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the given DB handle.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

const restaurantCols = `id, name, street, number, city, province, country, postal_code, calendar_id, active, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (*model.Restaurant, error) {
	var re model.Restaurant
	var calendarID sql.NullInt64
	err := row.Scan(&re.ID, &re.Name,
		&re.Address.Street, &re.Address.Number, &re.Address.City,
		&re.Address.Province, &re.Address.Country, &re.Address.PostalCode,
		&calendarID, &re.Active, &re.CreatedAt, &re.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if calendarID.Valid {
		cid := uint64(calendarID.Int64)
		re.CalendarID = &cid
	}
	return &re, nil
}

// Create inserts a new restaurant and reads the row back so the caller
// gets generated timestamps and defaults.
func (r *RestaurantRepo) Create(ctx context.Context, re *model.Restaurant) error {
	const q = `INSERT INTO restaurants (name, street, number, city, province, country, postal_code, active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, re.Name,
		re.Address.Street, re.Address.Number, re.Address.City,
		re.Address.Province, re.Address.Country, re.Address.PostalCode, re.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	re.ID = uint64(id)
	created, err := r.GetByID(ctx, re.ID)
	if err != nil {
		return err
	}
	*re = *created
	return nil
}

// GetByID returns a restaurant by primary key or ErrRestaurantNotFound.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	re, err := scanRestaurant(r.db.QueryRowContext(ctx,
		`SELECT `+restaurantCols+` FROM restaurants WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	return re, err
}

// List returns all restaurants ordered by id.
func (r *RestaurantRepo) List(ctx context.Context) ([]*model.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+restaurantCols+` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Restaurant
	for rows.Next() {
		re, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

// Update persists the mutable fields of a restaurant.
func (r *RestaurantRepo) Update(ctx context.Context, re *model.Restaurant) error {
	const q = `UPDATE restaurants
	           SET name = ?, street = ?, number = ?, city = ?, province = ?, country = ?, postal_code = ?, active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, re.Name,
		re.Address.Street, re.Address.Number, re.Address.City,
		re.Address.Province, re.Address.Country, re.Address.PostalCode,
		re.Active, re.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or unchanged; verify existence for a clean error.
		if _, err := r.GetByID(ctx, re.ID); err != nil {
			return err
		}
	}
	return nil
}

// AssignCalendar points the restaurant at a calendar.  Pass nil to
// detach the current calendar.
func (r *RestaurantRepo) AssignCalendar(ctx context.Context, id uint64, calendarID *uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE restaurants SET calendar_id = ? WHERE id = ?`, calendarID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a restaurant.  Dependent rows cascade at the schema
// level.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
