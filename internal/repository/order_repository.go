package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrOrderNotFound is returned when an order lookup fails.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderCancelled is returned when an operation targets an order that
// has already been cancelled.
var ErrOrderCancelled = errors.New("order is cancelled")

// OrderRepo provides the minimal order access the reservation flow
// needs: creation, lookup and cancellation.  Cancelling an order voids
// its reservations without touching their rows; the status join in
// ReservationRepo keeps them out of every occupancy and overlap check.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the given DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, restaurant_id, user_id, total_cents, total_dishes, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.RestaurantID, &o.UserID,
		&o.TotalCents, &o.TotalDishes, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new order in PENDING status and reads it back.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	const q = `INSERT INTO orders (restaurant_id, user_id, total_cents, total_dishes, status)
	           VALUES (?, ?, ?, ?, ?)`
	if o.Status == "" {
		o.Status = model.OrderStatusPending
	}
	res, err := r.db.ExecContext(ctx, q,
		o.RestaurantID, o.UserID, o.TotalCents, o.TotalDishes, o.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	created, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = *created
	return nil
}

// GetByID returns an order by primary key or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// Cancel transitions an order to CANCELLED.  The transition is one-way:
// an already cancelled order returns ErrOrderCancelled so callers can
// report a 409 instead of silently re-cancelling.
func (r *OrderRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status <> ?`,
		model.OrderStatusCancelled, id, model.OrderStatusCancelled)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status == model.OrderStatusCancelled {
			return ErrOrderCancelled
		}
	}
	return nil
}
