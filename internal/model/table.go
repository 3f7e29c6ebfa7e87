package model

import "time"

// Table is a physical seating unit inside a restaurant.  Its (x, y)
// position is unique within the restaurant, and assigned chair counts
// on reservations must fall inside [MinChairs, MaxChairs].
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  XPosition    – horizontal grid position inside the floor plan.
//  YPosition    – vertical grid position inside the floor plan.
//  MinChairs    – minimum chairs a reservation may request.
//  MaxChairs    – maximum chairs a reservation may request.
//  IsActive     – whether the table can currently be booked.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
	ID           uint64    // tables.id
	RestaurantID uint64    // tables.restaurant_id
	XPosition    uint32    // tables.x_position
	YPosition    uint32    // tables.y_position
	MinChairs    uint32    // tables.min_chairs
	MaxChairs    uint32    // tables.max_chairs
	IsActive     bool      // tables.is_active
	CreatedAt    time.Time // tables.created_at
	UpdatedAt    time.Time // tables.updated_at
}
