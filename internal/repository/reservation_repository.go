package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides access to the reservations table.  Every
// "active" query joins orders and filters out CANCELLED status, so
// voided reservations stay on disk but never count for occupancy or
// overlap checks.  The write paths are transactional: callers lock the
// table row (TableRepo.LockTx), fetch the active set, run the conflict
// test and insert, all inside one transaction.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo with the given DB handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const datetimeLayout = "2006-01-02 15:04:05"

const reservationCols = `r.id, r.order_id, r.table_id, r.start_reserve, r.finish_reserve, r.assigned_chairs, o.status, r.created_at, r.updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.OrderID, &res.TableID,
		&res.StartReserve, &res.FinishReserve, &res.AssignedChairs,
		&res.OrderStatus, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateTx inserts a reservation within an existing transaction and
// reads the row back to populate timestamps.  The caller must commit or
// roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (order_id, table_id, start_reserve, finish_reserve, assigned_chairs)
	           VALUES (?, ?, ?, ?, ?)`
	out, err := tx.ExecContext(ctx, q, res.OrderID, res.TableID,
		res.StartReserve.UTC().Format(datetimeLayout),
		res.FinishReserve.UTC().Format(datetimeLayout),
		res.AssignedChairs)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT ` + reservationCols + `
	             FROM reservations r JOIN orders o ON o.id = r.order_id
	             WHERE r.id = ?`
	got, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = *got
	return nil
}

// UpdateTx rewrites the interval and chair count of a reservation
// within an existing transaction.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET start_reserve = ?, finish_reserve = ?, assigned_chairs = ?
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q,
		res.StartReserve.UTC().Format(datetimeLayout),
		res.FinishReserve.UTC().Format(datetimeLayout),
		res.AssignedChairs, res.ID)
	return err
}

// GetByID returns a reservation with its order status joined, or
// ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
	           FROM reservations r JOIN orders o ON o.id = r.order_id
	           WHERE r.id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// ActiveByTableTx returns every reservation on the table whose owning
// order is not cancelled, ordered by start time, within the given
// transaction.  This is the candidate set for the overlap check and
// must run after the table row has been locked.
func (r *ReservationRepo) ActiveByTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
	           FROM reservations r JOIN orders o ON o.id = r.order_id
	           WHERE r.table_id = ? AND o.status <> ?
	           ORDER BY r.start_reserve`
	rows, err := tx.QueryContext(ctx, q, tableID, model.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ActiveByTableOnDay returns the non-cancelled reservations of a table
// that start on the given calendar day, ordered by start time.  The
// occupancy computation runs over this set.
func (r *ReservationRepo) ActiveByTableOnDay(ctx context.Context, tableID uint64, day time.Time) ([]model.Reservation, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	const q = `SELECT ` + reservationCols + `
	           FROM reservations r JOIN orders o ON o.id = r.order_id
	           WHERE r.table_id = ? AND o.status <> ?
	             AND r.start_reserve >= ? AND r.start_reserve < ?
	           ORDER BY r.start_reserve`
	rows, err := r.db.QueryContext(ctx, q, tableID, model.OrderStatusCancelled,
		dayStart.Format(datetimeLayout), dayEnd.Format(datetimeLayout))
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByTable returns all reservations of a table including voided
// ones, newest first.
func (r *ReservationRepo) ListByTable(ctx context.Context, tableID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
	           FROM reservations r JOIN orders o ON o.id = r.order_id
	           WHERE r.table_id = ?
	           ORDER BY r.start_reserve DESC`
	rows, err := r.db.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// Delete removes a reservation row outright.  Most callers should
// cancel the owning order instead; hard deletion exists for admin
// cleanup.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}
