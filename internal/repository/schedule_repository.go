package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrScheduleNotFound is returned when a schedule lookup fails.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo provides access to schedules and their ordered opening
// hours (schedule_hours).  A schedule with a non-null day is an
// override for that exact date; a null day marks a seasonal weekly
// template.  The unique key on (calendar_id, day) keeps overrides to at
// most one per date.
//
// ScheduleRepo satisfies availability.ScheduleSource.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// Create inserts a schedule and its hours in one transaction.  A second
// override for the same (calendar, day) returns ErrConflict.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var day any
	if s.Day != nil {
		day = s.Day.Format(dateLayout)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO schedules (calendar_id, day) VALUES (?, ?)`, s.CalendarID, day)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	if err := insertHoursTx(ctx, tx, s.ID, s.OpenedHours); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	created, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	if created == nil {
		return ErrScheduleNotFound
	}
	*s = *created
	return nil
}

func insertHoursTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, hours []model.ClockTime) error {
	if len(hours) == 0 {
		return nil
	}
	query := `INSERT INTO schedule_hours (schedule_id, position, opens_at) VALUES `
	args := make([]any, 0, len(hours)*3)
	for i, h := range hours {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, scheduleID, i, h.String())
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns a schedule with its hours loaded in stored order.  It
// returns (nil, nil) when the schedule does not exist, matching the
// contract of availability.ScheduleSource.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	const q = `SELECT id, calendar_id, day, created_at, updated_at FROM schedules WHERE id = ?`
	s, err := r.scanSchedule(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadHours(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// OverrideForDay returns the override schedule for the exact
// (calendar, day) pair, or nil when no override exists.
func (r *ScheduleRepo) OverrideForDay(ctx context.Context, calendarID uint64, day time.Time) (*model.Schedule, error) {
	const q = `SELECT id, calendar_id, day, created_at, updated_at
	           FROM schedules WHERE calendar_id = ? AND day = ?`
	s, err := r.scanSchedule(r.db.QueryRowContext(ctx, q, calendarID, day.Format(dateLayout)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadHours(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByCalendar returns all schedules of a calendar, templates first,
// then overrides by date.
func (r *ScheduleRepo) ListByCalendar(ctx context.Context, calendarID uint64) ([]*model.Schedule, error) {
	const q = `SELECT id, calendar_id, day, created_at, updated_at
	           FROM schedules WHERE calendar_id = ?
	           ORDER BY day IS NOT NULL, day, id`
	rows, err := r.db.QueryContext(ctx, q, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Schedule
	for rows.Next() {
		s, err := r.scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range out {
		if err := r.loadHours(ctx, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReplaceHours swaps the full hour list of a schedule atomically.
func (r *ScheduleRepo) ReplaceHours(ctx context.Context, scheduleID uint64, hours []model.ClockTime) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schedule_hours WHERE schedule_id = ?`, scheduleID); err != nil {
		return err
	}
	if err := insertHoursTx(ctx, tx, scheduleID, hours); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a schedule and its hours via cascade.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *ScheduleRepo) scanSchedule(row interface{ Scan(...any) error }) (*model.Schedule, error) {
	var s model.Schedule
	var day sql.NullTime
	if err := row.Scan(&s.ID, &s.CalendarID, &day, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if day.Valid {
		d := day.Time
		s.Day = &d
	}
	return &s, nil
}

func (r *ScheduleRepo) loadHours(ctx context.Context, s *model.Schedule) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT opens_at FROM schedule_hours WHERE schedule_id = ? ORDER BY position`, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		h, err := model.ParseClockTime(raw)
		if err != nil {
			return err
		}
		s.OpenedHours = append(s.OpenedHours, h)
	}
	return rows.Err()
}
