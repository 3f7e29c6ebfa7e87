package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	ct, err := ParseClockTime("08:30:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(8*3600+30*60), ct)
	assert.Equal(t, "08:30:00", ct.String())

	ct, err = ParseClockTime("00:00:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(0), ct)

	ct, err = ParseClockTime("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", ct.String())
}

func TestParseClockTimeRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "8:30", "24:00:00", "12:60:00", "12:00:61", "-1:00:00", "abc"} {
		_, err := ParseClockTime(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestClockTimeOf(t *testing.T) {
	ts := time.Date(2026, 7, 14, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, ClockTime(18*3600+30*60), ClockTimeOf(ts))

	// Only the time of day matters.
	other := time.Date(1999, 1, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, ClockTimeOf(ts), ClockTimeOf(other))
}

func TestOnHalfHour(t *testing.T) {
	on := []string{"00:00:00", "09:30:00", "12:00:00", "23:30:00"}
	for _, s := range on {
		ct, err := ParseClockTime(s)
		require.NoError(t, err)
		assert.True(t, ct.OnHalfHour(), s)
	}
	off := []string{"09:15:00", "12:00:30", "23:45:00", "08:30:01"}
	for _, s := range off {
		ct, err := ParseClockTime(s)
		require.NoError(t, err)
		assert.False(t, ct.OnHalfHour(), s)
	}
}
