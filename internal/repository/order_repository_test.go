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

var orderRows = []string{"id", "restaurant_id", "user_id", "total_cents", "total_dishes", "status", "created_at", "updated_at"}

func TestOrderCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE orders SET status = \? WHERE id = \? AND status <> \?`).
		WithArgs(model.OrderStatusCancelled, uint64(5), model.OrderStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewOrderRepo(db)
	assert.NoError(t, repo.Cancel(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCancelAlreadyCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`UPDATE orders SET status = \?`).
		WithArgs(model.OrderStatusCancelled, uint64(5), model.OrderStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, restaurant_id.*FROM orders WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(orderRows).
			AddRow(5, 1, 2, 4200, 3, model.OrderStatusCancelled, now, now))

	repo := NewOrderRepo(db)
	assert.ErrorIs(t, repo.Cancel(context.Background(), 5), ErrOrderCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCancelNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE orders SET status = \?`).
		WithArgs(model.OrderStatusCancelled, uint64(5), model.OrderStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, restaurant_id.*FROM orders WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(orderRows))

	repo := NewOrderRepo(db)
	assert.ErrorIs(t, repo.Cancel(context.Background(), 5), ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
