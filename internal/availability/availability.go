package availability

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TurnoverBuffer is the grace window subtracted from a reservation's
// end when deciding whether a slot or interval is still occupied.  It
// models the time needed to clear a table between parties, so the slot
// right at a reservation's end stays bookable.
const TurnoverBuffer = 5 * time.Minute

// ScheduleSource provides the schedule lookups ResolveSchedule needs.
// Repositories implement it; tests supply in-memory fakes.
type ScheduleSource interface {
	// OverrideForDay returns the override schedule for the exact
	// (calendar, day) pair, or nil when none exists.
	OverrideForDay(ctx context.Context, calendarID uint64, day time.Time) (*model.Schedule, error)
	// GetByID returns a schedule by primary key, or nil when absent.
	GetByID(ctx context.Context, id uint64) (*model.Schedule, error)
}

// ResolveSchedule determines the opening-hours schedule applicable to a
// calendar on the given day.
//
// An override for the exact day always wins, even when its hour list is
// empty (an empty override means "closed that day").  Without an
// override the calendar must be fully configured, the day is classified
// into one of the three seasonal windows, and the season's default
// weekly schedule is returned.
//
// Days outside [normal, summer) and [summer, winter) fall through to
// winter, including days before the normal start date; this mirrors the
// behavior the calendar data was built around.
//
// Closed-day membership is deliberately not checked here: callers
// consult Calendar.ClosedOn to tell "closed" apart from "no schedule".
func ResolveSchedule(ctx context.Context, src ScheduleSource, cal *model.Calendar, day time.Time) (*model.Schedule, error) {
	override, err := src.OverrideForDay(ctx, cal.ID, day)
	if err != nil {
		return nil, err
	}
	if override != nil {
		return override, nil
	}

	if !cal.Configured() {
		return nil, ErrCalendarNotConfigured
	}

	var scheduleID uint64
	switch {
	case !day.Before(*cal.NormalStartDate) && day.Before(*cal.SummerStartDate):
		scheduleID = *cal.NormalScheduleID
	case !day.Before(*cal.SummerStartDate) && day.Before(*cal.WinterStartDate):
		scheduleID = *cal.SummerScheduleID
	default:
		scheduleID = *cal.WinterScheduleID
	}

	schedule, err := src.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleMissing
	}
	return schedule, nil
}

// OccupiedSlots computes which opening-hour slots are taken by the
// given reservations.  Callers must pass reservations already filtered
// to one table and one day, with cancelled orders excluded.
//
// A slot h counts as occupied when start <= h < finish-TurnoverBuffer
// for at least one reservation, comparing times of day only.  The
// buffer is taken off each existing reservation's end so the slot
// adjacent to it remains usable.
//
// The result maps canonical "HH:MM:SS" strings to membership, directly
// comparable against Schedule.HourStrings.
func OccupiedSlots(reservations []model.Reservation, openingHours []model.ClockTime) map[string]struct{} {
	occupied := make(map[string]struct{})
	for _, r := range reservations {
		start := model.ClockTimeOf(r.StartReserve)
		effectiveEnd := model.ClockTimeOf(r.FinishReserve.Add(-TurnoverBuffer))
		for _, h := range openingHours {
			if start <= h && h < effectiveEnd {
				occupied[h.String()] = struct{}{}
			}
		}
	}
	return occupied
}

// AvailableSlots returns every opening hour not present in occupied, in
// the original order.  Duplicates in the source list are preserved.
func AvailableSlots(openingHours []model.ClockTime, occupied map[string]struct{}) []string {
	available := make([]string, 0, len(openingHours))
	for _, h := range openingHours {
		if _, taken := occupied[h.String()]; !taken {
			available = append(available, h.String())
		}
	}
	return available
}

// Conflict searches existing reservations for one that collides with
// the proposed [start, finish) interval.  Reservations whose ID equals
// excludeID are skipped so updates do not conflict with themselves;
// pass 0 when creating.  Reservations with a cancelled owning order are
// skipped as well, in case the caller fetched them unfiltered.
//
// A collision exists when R.start < finish-TurnoverBuffer and
// R.finish > start.  Note the buffer comes off the proposed end here,
// mirroring the occupancy computation where it comes off the existing
// reservation's end.
func Conflict(existing []model.Reservation, start, finish time.Time, excludeID uint64) *model.Reservation {
	bufferedFinish := finish.Add(-TurnoverBuffer)
	for i := range existing {
		r := &existing[i]
		if r.ID == excludeID && excludeID != 0 {
			continue
		}
		if r.OrderStatus == model.OrderStatusCancelled {
			continue
		}
		if r.StartReserve.Before(bufferedFinish) && r.FinishReserve.After(start) {
			return r
		}
	}
	return nil
}

// ValidateInterval checks that both endpoints are set and that start is
// strictly before finish.
func ValidateInterval(start, finish time.Time) error {
	if start.IsZero() || finish.IsZero() || !start.Before(finish) {
		return ErrInvalidInterval
	}
	return nil
}

// ValidateChairs checks that the requested chair count is positive and
// lies within the table's configured range.
func ValidateChairs(table *model.Table, chairs uint32) error {
	if chairs == 0 || chairs < table.MinChairs || chairs > table.MaxChairs {
		return ErrInvalidChairCount
	}
	return nil
}
