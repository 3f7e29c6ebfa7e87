package model

import "time"

// Calendar describes a restaurant's yearly opening schedule.  Three
// seasonal start dates split the year into contiguous windows (normal →
// summer → winter, wrapping back to normal), each pointing at a default
// weekly schedule.  Explicit closed days override everything else.
//
// All six seasonal fields are nullable: a calendar with any of them
// missing is considered unconfigured and day resolution fails unless an
// override schedule exists for the requested day.
//
// Fields:
//  ID               – primary key identifier.
//  NormalScheduleID – default schedule for the normal season.
//  SummerScheduleID – default schedule for the summer season.
//  WinterScheduleID – default schedule for the winter season.
//  NormalStartDate  – first day of the normal season.
//  SummerStartDate  – first day of the summer season.
//  WinterStartDate  – first day of the winter season.
//  ClosedDays       – dates the restaurant is shut regardless of season.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Calendar struct {
	ID               uint64      // calendars.id
	NormalScheduleID *uint64     // calendars.normal_schedule_id (nullable)
	SummerScheduleID *uint64     // calendars.summer_schedule_id (nullable)
	WinterScheduleID *uint64     // calendars.winter_schedule_id (nullable)
	NormalStartDate  *time.Time  // calendars.normal_start_date (nullable)
	SummerStartDate  *time.Time  // calendars.summer_start_date (nullable)
	WinterStartDate  *time.Time  // calendars.winter_start_date (nullable)
	ClosedDays       []time.Time // calendar_closed_days.closed_on
	CreatedAt        time.Time   // calendars.created_at
	UpdatedAt        time.Time   // calendars.updated_at
}

// Configured reports whether all seasonal start dates and default
// schedule references are present.
func (c *Calendar) Configured() bool {
	return c.NormalStartDate != nil && c.SummerStartDate != nil && c.WinterStartDate != nil &&
		c.NormalScheduleID != nil && c.SummerScheduleID != nil && c.WinterScheduleID != nil
}

// ClosedOn reports whether the given day is an explicit closed day.
// Comparison is by calendar date only.
func (c *Calendar) ClosedOn(day time.Time) bool {
	y, m, d := day.Date()
	for _, cd := range c.ClosedDays {
		cy, cm, cdd := cd.Date()
		if y == cy && m == cm && d == cdd {
			return true
		}
	}
	return false
}
