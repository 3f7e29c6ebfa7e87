// Package queue carries the broker event payloads and the consumer
// that drains them into log files.
package queue

import "time"

// ReservationBookedQueue is the broker queue reservations are
// announced on.
const ReservationBookedQueue = "reservation.booked"

// ReservationBookedEvent is published after a reservation commits.
type ReservationBookedEvent struct {
	ReservationID uint64    `json:"reservation_id"`
	OrderID       uint64    `json:"order_id"`
	TableID       uint64    `json:"table_id"`
	RestaurantID  uint64    `json:"restaurant_id"`
	StartReserve  time.Time `json:"start_reserve"`
	FinishReserve time.Time `json:"finish_reserve"`
	Chairs        uint32    `json:"chairs"`
	BookedAt      time.Time `json:"booked_at"`
}
