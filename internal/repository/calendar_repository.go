package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrCalendarNotFound is returned when a calendar lookup fails.
var ErrCalendarNotFound = errors.New("calendar not found")

// CalendarRepo provides access to the calendars and calendar_closed_days
// tables.  Seasonal dates and default schedule references are all
// nullable; the availability layer decides whether a calendar counts as
// configured.
type CalendarRepo struct {
	db *sql.DB
}

// NewCalendarRepo constructs a CalendarRepo with the given DB handle.
func NewCalendarRepo(db *sql.DB) *CalendarRepo { return &CalendarRepo{db: db} }

const dateLayout = "2006-01-02"

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// Create inserts a calendar together with its closed days.
func (r *CalendarRepo) Create(ctx context.Context, cal *model.Calendar) error {
	const q = `INSERT INTO calendars
	           (normal_schedule_id, summer_schedule_id, winter_schedule_id,
	            normal_start_date, summer_start_date, winter_start_date)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		cal.NormalScheduleID, cal.SummerScheduleID, cal.WinterScheduleID,
		nullDate(cal.NormalStartDate), nullDate(cal.SummerStartDate), nullDate(cal.WinterStartDate))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cal.ID = uint64(id)
	for _, day := range cal.ClosedDays {
		if err := r.AddClosedDay(ctx, cal.ID, day); err != nil {
			return err
		}
	}
	created, err := r.GetByID(ctx, cal.ID)
	if err != nil {
		return err
	}
	*cal = *created
	return nil
}

// GetByID returns a calendar with its closed days loaded, or
// ErrCalendarNotFound.
func (r *CalendarRepo) GetByID(ctx context.Context, id uint64) (*model.Calendar, error) {
	const q = `SELECT id, normal_schedule_id, summer_schedule_id, winter_schedule_id,
	                  normal_start_date, summer_start_date, winter_start_date,
	                  created_at, updated_at
	           FROM calendars WHERE id = ?`
	var cal model.Calendar
	var normalID, summerID, winterID sql.NullInt64
	var normalStart, summerStart, winterStart sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&cal.ID, &normalID, &summerID, &winterID,
		&normalStart, &summerStart, &winterStart,
		&cal.CreatedAt, &cal.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCalendarNotFound
	}
	if err != nil {
		return nil, err
	}
	if normalID.Valid {
		v := uint64(normalID.Int64)
		cal.NormalScheduleID = &v
	}
	if summerID.Valid {
		v := uint64(summerID.Int64)
		cal.SummerScheduleID = &v
	}
	if winterID.Valid {
		v := uint64(winterID.Int64)
		cal.WinterScheduleID = &v
	}
	if normalStart.Valid {
		v := normalStart.Time
		cal.NormalStartDate = &v
	}
	if summerStart.Valid {
		v := summerStart.Time
		cal.SummerStartDate = &v
	}
	if winterStart.Valid {
		v := winterStart.Time
		cal.WinterStartDate = &v
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT closed_on FROM calendar_closed_days WHERE calendar_id = ? ORDER BY closed_on`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		cal.ClosedDays = append(cal.ClosedDays, day)
	}
	return &cal, rows.Err()
}

// Update persists the seasonal configuration of a calendar.  Closed
// days are managed separately through AddClosedDay/RemoveClosedDay.
func (r *CalendarRepo) Update(ctx context.Context, cal *model.Calendar) error {
	const q = `UPDATE calendars
	           SET normal_schedule_id = ?, summer_schedule_id = ?, winter_schedule_id = ?,
	               normal_start_date = ?, summer_start_date = ?, winter_start_date = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		cal.NormalScheduleID, cal.SummerScheduleID, cal.WinterScheduleID,
		nullDate(cal.NormalStartDate), nullDate(cal.SummerStartDate), nullDate(cal.WinterStartDate),
		cal.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, cal.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a calendar; closed days and schedules cascade.
func (r *CalendarRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCalendarNotFound
	}
	return nil
}

// AddClosedDay marks a date as closed.  Adding the same date twice is
// a no-op thanks to the unique key.
func (r *CalendarRepo) AddClosedDay(ctx context.Context, calendarID uint64, day time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calendar_closed_days (calendar_id, closed_on) VALUES (?, ?)`,
		calendarID, day.Format(dateLayout))
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

// RemoveClosedDay reopens a previously closed date.
func (r *CalendarRepo) RemoveClosedDay(ctx context.Context, calendarID uint64, day time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM calendar_closed_days WHERE calendar_id = ? AND closed_on = ?`,
		calendarID, day.Format(dateLayout))
	return err
}
