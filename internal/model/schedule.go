package model

import "time"

// Schedule holds the list of bookable opening-hour slots for either a
// specific calendar date (an override, Day non-nil) or a generic weekly
// template (Day nil).  An override with an empty hour list means the
// restaurant is explicitly closed on that day.  At most one override
// exists per (calendar, day) pair.
//
// Fields:
//  ID          – primary key identifier.
//  CalendarID  – owning calendar.
//  Day         – the specific date this override applies to; nil for
//                seasonal weekly templates.
//  OpenedHours – ordered bookable slots, each on a half-hour boundary.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Schedule struct {
	ID          uint64      // schedules.id
	CalendarID  uint64      // schedules.calendar_id
	Day         *time.Time  // schedules.day (nullable)
	OpenedHours []ClockTime // schedule_hours.opens_at, ordered by position
	CreatedAt   time.Time   // schedules.created_at
	UpdatedAt   time.Time   // schedules.updated_at
}

// HourStrings returns the opening hours in canonical "HH:MM:SS" form,
// preserving order.
func (s *Schedule) HourStrings() []string {
	out := make([]string, 0, len(s.OpenedHours))
	for _, h := range s.OpenedHours {
		out = append(out, h.String())
	}
	return out
}
