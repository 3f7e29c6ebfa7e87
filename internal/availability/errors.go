// Package availability implements the scheduling core: resolving which
// opening-hours schedule applies to a restaurant on a given day,
// computing which half-hour slots are free for a table, and validating
// that new reservations do not collide with existing ones.  All
// functions operate on data fetched by the caller; the package holds no
// state of its own.
package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrCalendarNotConfigured is returned by ResolveSchedule when the
// calendar is missing any seasonal start date or default schedule
// reference and no override exists for the requested day.
var ErrCalendarNotConfigured = errors.New("calendar is not configured with seasonal dates and schedules")

// ErrScheduleMissing is returned when a season was resolved but the
// calendar's default schedule for that season cannot be loaded.
var ErrScheduleMissing = errors.New("no schedule found for the requested day")

// ErrNoCalendar is returned when availability is requested for a
// restaurant that has no calendar assigned.
var ErrNoCalendar = errors.New("restaurant has no calendar assigned")

// ErrInvalidInterval is returned when a reservation interval is empty
// or inverted (start must be strictly before finish).
var ErrInvalidInterval = errors.New("reservation start must be before finish")

// ErrInvalidChairCount is returned when the requested chair count lies
// outside the table's configured min/max range.
var ErrInvalidChairCount = errors.New("assigned chairs outside table bounds")

// OverlapError reports a conflict between a proposed reservation and an
// existing one on the same table.
type OverlapError struct {
	TableID uint64
	Start   time.Time
	Finish  time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("table %d is already reserved from %s to %s",
		e.TableID, e.Start.Format(time.RFC3339), e.Finish.Format(time.RFC3339))
}
