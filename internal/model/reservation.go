package model

import "time"

// Reservation books a table for a time interval on behalf of an order.
// StartReserve is strictly before FinishReserve.  Two reservations for
// the same table whose orders are not cancelled may never overlap
// (subject to the turnover buffer applied by the availability logic).
//
// Fields:
//  ID             – primary key identifier.
//  OrderID        – owning order; cancelling it voids the reservation.
//  TableID        – table being booked.
//  StartReserve   – when the party is seated.
//  FinishReserve  – when the table is expected back.
//  AssignedChairs – chairs requested, within the table's min/max range.
//  OrderStatus    – status of the owning order when loaded with a join;
//                   empty if the reservation was loaded alone.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Reservation struct {
	ID             uint64    // reservations.id
	OrderID        uint64    // reservations.order_id
	TableID        uint64    // reservations.table_id
	StartReserve   time.Time // reservations.start_reserve
	FinishReserve  time.Time // reservations.finish_reserve
	AssignedChairs uint32    // reservations.assigned_chairs
	OrderStatus    string    // orders.status (join, not persisted here)
	CreatedAt      time.Time // reservations.created_at
	UpdatedAt      time.Time // reservations.updated_at
}
