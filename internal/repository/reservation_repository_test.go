package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

var reservationRows = []string{
	"r.id", "r.order_id", "r.table_id", "r.start_reserve", "r.finish_reserve",
	"r.assigned_chairs", "o.status", "r.created_at", "r.updated_at",
}

func TestActiveByTableOnDayFiltersCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(reservationRows).
		AddRow(1, 5, 3, day.Add(10*time.Hour), day.Add(12*time.Hour), 4, model.OrderStatusConfirmed, now, now).
		AddRow(2, 6, 3, day.Add(14*time.Hour), day.Add(16*time.Hour), 2, model.OrderStatusPending, now, now)

	mock.ExpectQuery(`(?s)SELECT r\.id, r\.order_id.*FROM reservations r JOIN orders o.*WHERE r\.table_id = \? AND o\.status <> \?.*ORDER BY r\.start_reserve`).
		WithArgs(uint64(3), model.OrderStatusCancelled, "2026-07-14 00:00:00", "2026-07-15 00:00:00").
		WillReturnRows(rows)

	repo := NewReservationRepo(db)
	got, err := repo.ActiveByTableOnDay(context.Background(), 3, day)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, model.OrderStatusPending, got[1].OrderStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTxReadsRowBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 7, 14, 19, 0, 0, 0, time.UTC)
	finish := start.Add(2 * time.Hour)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(uint64(5), uint64(3), "2026-07-14 19:00:00", "2026-07-14 21:00:00", uint32(4)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`(?s)SELECT r\.id.*WHERE r\.id = \?`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(reservationRows).
			AddRow(42, 5, 3, start, finish, 4, model.OrderStatusPending, now, now))
	mock.ExpectCommit()

	repo := NewReservationRepo(db)
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	res := model.Reservation{OrderID: 5, TableID: 3, StartReserve: start, FinishReserve: finish, AssignedChairs: 4}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &res))
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(42), res.ID)
	assert.Equal(t, model.OrderStatusPending, res.OrderStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM reservations WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewReservationRepo(db)
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
