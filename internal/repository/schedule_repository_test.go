package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrideForDayMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT id, calendar_id, day.*FROM schedules WHERE calendar_id = \? AND day = \?`).
		WithArgs(uint64(1), "2026-07-14").
		WillReturnRows(sqlmock.NewRows([]string{"id", "calendar_id", "day", "created_at", "updated_at"}))

	repo := NewScheduleRepo(db)
	s, err := repo.OverrideForDay(context.Background(), 1, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverrideForDayHitLoadsHours(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)SELECT id, calendar_id, day.*FROM schedules WHERE calendar_id = \? AND day = \?`).
		WithArgs(uint64(1), "2026-07-14").
		WillReturnRows(sqlmock.NewRows([]string{"id", "calendar_id", "day", "created_at", "updated_at"}).
			AddRow(7, 1, day, now, now))
	mock.ExpectQuery(`SELECT opens_at FROM schedule_hours WHERE schedule_id = \? ORDER BY position`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"opens_at"}).
			AddRow("12:00:00").
			AddRow("13:30:00"))

	repo := NewScheduleRepo(db)
	s, err := repo.OverrideForDay(context.Background(), 1, day)
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, s.Day)
	assert.Equal(t, []string{"12:00:00", "13:30:00"}, s.HourStrings())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissIsNilNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, calendar_id, day, created_at, updated_at FROM schedules WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "calendar_id", "day", "created_at", "updated_at"}))

	repo := NewScheduleRepo(db)
	s, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}
