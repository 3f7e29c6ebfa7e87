package model

import "time"

// Order statuses.  A reservation stays effective while its owning order
// is in any status other than CANCELLED; cancellation voids the
// reservation without deleting the row.  There is no transition out of
// CANCELLED.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
)

// Order is the purchase a reservation is attached to.  Only the fields
// the reservation flow depends on are modeled here; dish lines and
// payment handling live in other services.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the order was placed at.
//  UserID       – user who placed the order.
//  TotalCents   – order total in cents.
//  TotalDishes  – number of dishes in the order.
//  Status       – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Order struct {
	ID           uint64    // orders.id
	RestaurantID uint64    // orders.restaurant_id
	UserID       uint64    // orders.user_id
	TotalCents   uint64    // orders.total_cents
	TotalDishes  uint32    // orders.total_dishes
	Status       string    // orders.status
	CreatedAt    time.Time // orders.created_at
	UpdatedAt    time.Time // orders.updated_at
}
