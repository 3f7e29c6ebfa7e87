package model

import (
	"fmt"
	"time"
)

// ClockTime is a time of day with second precision, independent of any
// calendar date.  It is stored as seconds since midnight.  Opening hour
// slots and occupancy comparisons operate on ClockTime values so that a
// reservation spanning "10:00:00".."12:00:00" can be compared against a
// slot regardless of which day it falls on.
type ClockTime int

// ParseClockTime parses a "HH:MM:SS" string into a ClockTime.  The hour
// must be in 0..23 and minutes/seconds in 0..59.
func ParseClockTime(s string) (ClockTime, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return ClockTime(h*3600 + m*60 + sec), nil
}

// ClockTimeOf extracts the time-of-day component of a timestamp.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// String renders the canonical "HH:MM:SS" form used on the wire.
func (t ClockTime) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// OnHalfHour reports whether the time lands on a half-hour boundary
// (minute 0 or 30, second 0).  Bookable slots are restricted to these.
func (t ClockTime) OnHalfHour() bool {
	s := int(t)
	return s%60 == 0 && ((s/60)%60 == 0 || (s/60)%60 == 30)
}
