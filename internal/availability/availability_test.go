package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// fakeSource serves schedules from memory, keyed by id and by override
// day.
type fakeSource struct {
	byID      map[uint64]*model.Schedule
	overrides map[string]*model.Schedule
}

func (f *fakeSource) OverrideForDay(_ context.Context, calendarID uint64, day time.Time) (*model.Schedule, error) {
	if f.overrides == nil {
		return nil, nil
	}
	return f.overrides[day.Format("2006-01-02")], nil
}

func (f *fakeSource) GetByID(_ context.Context, id uint64) (*model.Schedule, error) {
	return f.byID[id], nil
}

func mustHours(t *testing.T, raw ...string) []model.ClockTime {
	t.Helper()
	hours := make([]model.ClockTime, 0, len(raw))
	for _, s := range raw {
		ct, err := model.ParseClockTime(s)
		require.NoError(t, err)
		hours = append(hours, ct)
	}
	return hours
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func uintPtr(v uint64) *uint64 { return &v }

func seasonalCalendar() *model.Calendar {
	return &model.Calendar{
		ID:               1,
		NormalScheduleID: uintPtr(10),
		SummerScheduleID: uintPtr(20),
		WinterScheduleID: uintPtr(30),
		NormalStartDate:  datePtr(2026, 3, 1),
		SummerStartDate:  datePtr(2026, 6, 1),
		WinterStartDate:  datePtr(2026, 11, 1),
	}
}

func seasonalSource(t *testing.T) *fakeSource {
	return &fakeSource{byID: map[uint64]*model.Schedule{
		10: {ID: 10, CalendarID: 1, OpenedHours: mustHours(t, "12:00:00", "13:00:00")},
		20: {ID: 20, CalendarID: 1, OpenedHours: mustHours(t, "18:00:00", "19:00:00")},
		30: {ID: 30, CalendarID: 1, OpenedHours: mustHours(t, "11:00:00")},
	}}
}

func TestResolveScheduleSeasons(t *testing.T) {
	src := seasonalSource(t)
	cal := seasonalCalendar()
	ctx := context.Background()

	cases := []struct {
		day  time.Time
		want uint64
	}{
		{date(2026, 3, 1), 10},  // normal start, inclusive
		{date(2026, 5, 31), 10}, // last normal day
		{date(2026, 6, 1), 20},  // summer start, inclusive
		{date(2026, 10, 31), 20},
		{date(2026, 11, 1), 30}, // winter start, inclusive
		{date(2027, 2, 15), 30}, // past every boundary
		{date(2026, 1, 15), 30}, // before normal start falls through to winter
	}
	for _, tc := range cases {
		got, err := ResolveSchedule(ctx, src, cal, tc.day)
		require.NoError(t, err, tc.day)
		assert.Equal(t, tc.want, got.ID, tc.day)
	}
}

func TestResolveScheduleOverrideWins(t *testing.T) {
	src := seasonalSource(t)
	override := &model.Schedule{ID: 99, CalendarID: 1, Day: datePtr(2026, 7, 14), OpenedHours: mustHours(t, "20:00:00")}
	src.overrides = map[string]*model.Schedule{"2026-07-14": override}

	got, err := ResolveSchedule(context.Background(), src, seasonalCalendar(), date(2026, 7, 14))
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got.ID)
}

func TestResolveScheduleEmptyOverrideMeansClosed(t *testing.T) {
	src := seasonalSource(t)
	src.overrides = map[string]*model.Schedule{
		"2026-07-14": {ID: 99, CalendarID: 1, Day: datePtr(2026, 7, 14)},
	}

	got, err := ResolveSchedule(context.Background(), src, seasonalCalendar(), date(2026, 7, 14))
	require.NoError(t, err)
	assert.Empty(t, got.OpenedHours)
}

func TestResolveScheduleUnconfiguredCalendar(t *testing.T) {
	cal := seasonalCalendar()
	cal.SummerStartDate = nil

	_, err := ResolveSchedule(context.Background(), seasonalSource(t), cal, date(2026, 7, 14))
	assert.ErrorIs(t, err, ErrCalendarNotConfigured)
}

func TestResolveScheduleOverrideBeatsUnconfigured(t *testing.T) {
	src := seasonalSource(t)
	src.overrides = map[string]*model.Schedule{
		"2026-07-14": {ID: 99, CalendarID: 1, Day: datePtr(2026, 7, 14), OpenedHours: mustHours(t, "20:00:00")},
	}
	cal := seasonalCalendar()
	cal.NormalScheduleID = nil

	got, err := ResolveSchedule(context.Background(), src, cal, date(2026, 7, 14))
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got.ID)
}

func TestResolveScheduleMissingDefault(t *testing.T) {
	src := seasonalSource(t)
	delete(src.byID, 20)

	_, err := ResolveSchedule(context.Background(), src, seasonalCalendar(), date(2026, 7, 14))
	assert.ErrorIs(t, err, ErrScheduleMissing)
}

func reservationAt(id uint64, day time.Time, startHour, finishHour int) model.Reservation {
	return model.Reservation{
		ID:            id,
		TableID:       1,
		StartReserve:  day.Add(time.Duration(startHour) * time.Hour),
		FinishReserve: day.Add(time.Duration(finishHour) * time.Hour),
		OrderStatus:   model.OrderStatusConfirmed,
	}
}

func TestOccupiedSlots(t *testing.T) {
	day := date(2026, 7, 14)
	opening := mustHours(t, "08:00:00", "10:00:00", "12:00:00", "14:00:00")
	reservations := []model.Reservation{reservationAt(1, day, 10, 13)}

	occupied := OccupiedSlots(reservations, opening)
	assert.Equal(t, map[string]struct{}{"10:00:00": {}, "12:00:00": {}}, occupied)
}

func TestOccupiedSlotsEndSlotFreed(t *testing.T) {
	// A 10:00-12:00 reservation occupies 10:00 and 11:00 but the
	// turnover buffer frees the 12:00 slot.
	day := date(2026, 7, 14)
	opening := mustHours(t, "10:00:00", "11:00:00", "12:00:00")
	reservations := []model.Reservation{reservationAt(1, day, 10, 12)}

	occupied := OccupiedSlots(reservations, opening)
	assert.Contains(t, occupied, "10:00:00")
	assert.Contains(t, occupied, "11:00:00")
	assert.NotContains(t, occupied, "12:00:00")
}

func TestOccupiedSlotsUnion(t *testing.T) {
	day := date(2026, 7, 14)
	opening := mustHours(t, "09:00:00", "10:00:00", "11:00:00", "12:00:00")
	reservations := []model.Reservation{
		reservationAt(1, day, 9, 10),
		reservationAt(2, day, 11, 12),
	}

	occupied := OccupiedSlots(reservations, opening)
	assert.Equal(t, map[string]struct{}{"09:00:00": {}, "11:00:00": {}}, occupied)
}

func TestOccupiedSlotsNoReservations(t *testing.T) {
	opening := mustHours(t, "09:00:00", "10:00:00")
	assert.Empty(t, OccupiedSlots(nil, opening))
}

func TestAvailableSlots(t *testing.T) {
	opening := mustHours(t, "08:00:00", "10:00:00", "12:00:00", "14:00:00")
	occupied := map[string]struct{}{"10:00:00": {}, "12:00:00": {}}

	assert.Equal(t, []string{"08:00:00", "14:00:00"}, AvailableSlots(opening, occupied))
}

func TestAvailableSlotsPreservesOrderAndIsIdempotent(t *testing.T) {
	opening := mustHours(t, "14:00:00", "08:00:00", "12:00:00")
	occupied := map[string]struct{}{"12:00:00": {}}

	first := AvailableSlots(opening, occupied)
	assert.Equal(t, []string{"14:00:00", "08:00:00"}, first)
	assert.Equal(t, first, AvailableSlots(opening, occupied))
}

func TestAvailableSlotsEmptyOpening(t *testing.T) {
	assert.Empty(t, AvailableSlots(nil, map[string]struct{}{"10:00:00": {}}))
}

func TestConflictOverlapRejected(t *testing.T) {
	day := date(2026, 7, 14)
	existing := []model.Reservation{reservationAt(7, day, 10, 12)}

	hit := Conflict(existing, day.Add(11*time.Hour), day.Add(13*time.Hour), 0)
	require.NotNil(t, hit)
	assert.Equal(t, uint64(7), hit.ID)
}

func TestConflictContainmentRejected(t *testing.T) {
	day := date(2026, 7, 14)
	existing := []model.Reservation{reservationAt(7, day, 10, 14)}

	assert.NotNil(t, Conflict(existing, day.Add(11*time.Hour), day.Add(12*time.Hour), 0))
	assert.NotNil(t, Conflict(existing, day.Add(9*time.Hour), day.Add(15*time.Hour), 0))
}

func TestConflictBackToBackAllowed(t *testing.T) {
	day := date(2026, 7, 14)
	existing := []model.Reservation{reservationAt(7, day, 12, 13)}

	// Ends exactly when the existing one starts; the buffer comes off
	// the proposed finish so this books cleanly.
	assert.Nil(t, Conflict(existing, day.Add(11*time.Hour), day.Add(12*time.Hour), 0))
	// Starts exactly when the existing one ends.
	assert.Nil(t, Conflict(existing, day.Add(13*time.Hour), day.Add(14*time.Hour), 0))
}

func TestConflictDisjointAllowed(t *testing.T) {
	day := date(2026, 7, 14)
	existing := []model.Reservation{reservationAt(7, day, 10, 11)}

	assert.Nil(t, Conflict(existing, day.Add(18*time.Hour), day.Add(19*time.Hour), 0))
}

func TestConflictSkipsCancelledOrders(t *testing.T) {
	day := date(2026, 7, 14)
	r := reservationAt(7, day, 10, 12)
	r.OrderStatus = model.OrderStatusCancelled

	assert.Nil(t, Conflict([]model.Reservation{r}, day.Add(10*time.Hour), day.Add(12*time.Hour), 0))
}

func TestConflictExcludesSelf(t *testing.T) {
	day := date(2026, 7, 14)
	existing := []model.Reservation{reservationAt(7, day, 10, 12)}

	// Rescheduling reservation 7 over its own slot is fine.
	assert.Nil(t, Conflict(existing, day.Add(10*time.Hour), day.Add(12*time.Hour), 7))
	// But another reservation still conflicts.
	assert.NotNil(t, Conflict(existing, day.Add(10*time.Hour), day.Add(12*time.Hour), 8))
}

func TestValidateInterval(t *testing.T) {
	day := date(2026, 7, 14)
	assert.NoError(t, ValidateInterval(day.Add(10*time.Hour), day.Add(12*time.Hour)))
	assert.ErrorIs(t, ValidateInterval(day.Add(12*time.Hour), day.Add(10*time.Hour)), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateInterval(day.Add(10*time.Hour), day.Add(10*time.Hour)), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateInterval(time.Time{}, day), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateInterval(day, time.Time{}), ErrInvalidInterval)
}

func TestValidateChairs(t *testing.T) {
	table := &model.Table{MinChairs: 2, MaxChairs: 6}
	assert.NoError(t, ValidateChairs(table, 2))
	assert.NoError(t, ValidateChairs(table, 6))
	assert.ErrorIs(t, ValidateChairs(table, 1), ErrInvalidChairCount)
	assert.ErrorIs(t, ValidateChairs(table, 7), ErrInvalidChairCount)
	assert.ErrorIs(t, ValidateChairs(table, 0), ErrInvalidChairCount)
}
