package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

var (
	tableRows       = []string{"id", "restaurant_id", "x_position", "y_position", "min_chairs", "max_chairs", "is_active", "created_at", "updated_at"}
	orderRows       = []string{"id", "restaurant_id", "user_id", "total_cents", "total_dishes", "status", "created_at", "updated_at"}
	reservationRows = []string{"r.id", "r.order_id", "r.table_id", "r.start_reserve", "r.finish_reserve", "r.assigned_chairs", "o.status", "r.created_at", "r.updated_at"}
)

func newBookingContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tables/3/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	return c, rec
}

func expectBookingPreamble(mock sqlmock.Sqlmock, now time.Time) {
	mock.ExpectQuery(`SELECT id, restaurant_id.*FROM tables WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(tableRows).AddRow(3, 1, 2, 2, 2, 6, true, now, now))
	mock.ExpectQuery(`SELECT id, restaurant_id.*FROM orders WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(orderRows).AddRow(5, 1, 2, 4200, 3, model.OrderStatusPending, now, now))
}

func TestBookingCommitsLockCheckInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	start := time.Date(2026, 7, 14, 19, 0, 0, 0, time.UTC)
	finish := start.Add(2 * time.Hour)

	expectBookingPreamble(mock, now)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM tables WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`(?s)SELECT r\.id.*WHERE r\.table_id = \? AND o\.status <> \?`).
		WithArgs(uint64(3), model.OrderStatusCancelled).
		WillReturnRows(sqlmock.NewRows(reservationRows))
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(uint64(5), uint64(3), "2026-07-14 19:00:00", "2026-07-14 21:00:00", uint32(4)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`(?s)SELECT r\.id.*WHERE r\.id = \?`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(reservationRows).
			AddRow(42, 5, 3, start, finish, 4, model.OrderStatusPending, now, now))
	mock.ExpectCommit()

	h := NewReservationHandler(repository.NewReservationRepo(db), repository.NewTableRepo(db), repository.NewOrderRepo(db))
	c, rec := newBookingContext(t, `{"order_id":5,"start_reserve":"2026-07-14 19:00:00","finish_reserve":"2026-07-14 21:00:00","assigned_chairs":4}`)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 42, got["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingOverlapRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	expectBookingPreamble(mock, now)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM tables WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`(?s)SELECT r\.id.*WHERE r\.table_id = \? AND o\.status <> \?`).
		WithArgs(uint64(3), model.OrderStatusCancelled).
		WillReturnRows(sqlmock.NewRows(reservationRows).
			AddRow(7, 9, 3, day.Add(18*time.Hour), day.Add(20*time.Hour), 4, model.OrderStatusConfirmed, now, now))
	mock.ExpectRollback()

	h := NewReservationHandler(repository.NewReservationRepo(db), repository.NewTableRepo(db), repository.NewOrderRepo(db))
	c, rec := newBookingContext(t, `{"order_id":5,"start_reserve":"2026-07-14 19:00:00","finish_reserve":"2026-07-14 21:00:00","assigned_chairs":4}`)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already reserved")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRejectsChairsOutsideBounds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	expectBookingPreamble(mock, now)

	h := NewReservationHandler(repository.NewReservationRepo(db), repository.NewTableRepo(db), repository.NewOrderRepo(db))
	c, rec := newBookingContext(t, `{"order_id":5,"start_reserve":"2026-07-14 19:00:00","finish_reserve":"2026-07-14 21:00:00","assigned_chairs":7}`)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRejectsInvertedInterval(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	expectBookingPreamble(mock, now)

	h := NewReservationHandler(repository.NewReservationRepo(db), repository.NewTableRepo(db), repository.NewOrderRepo(db))
	c, rec := newBookingContext(t, `{"order_id":5,"start_reserve":"2026-07-14 21:00:00","finish_reserve":"2026-07-14 19:00:00","assigned_chairs":4}`)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRejectsCancelledOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, restaurant_id.*FROM tables WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(tableRows).AddRow(3, 1, 2, 2, 2, 6, true, now, now))
	mock.ExpectQuery(`SELECT id, restaurant_id.*FROM orders WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(orderRows).AddRow(5, 1, 2, 4200, 3, model.OrderStatusCancelled, now, now))

	h := NewReservationHandler(repository.NewReservationRepo(db), repository.NewTableRepo(db), repository.NewOrderRepo(db))
	c, rec := newBookingContext(t, `{"order_id":5,"start_reserve":"2026-07-14 19:00:00","finish_reserve":"2026-07-14 21:00:00","assigned_chairs":4}`)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
