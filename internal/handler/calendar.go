package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/availability"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// CalendarHandler serves calendar CRUD, closed-day management and the
// resolved-schedule listing over a date range.
type CalendarHandler struct {
	CalendarRepo *repository.CalendarRepo
	ScheduleRepo *repository.ScheduleRepo
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(calendarRepo *repository.CalendarRepo, scheduleRepo *repository.ScheduleRepo) *CalendarHandler {
	if calendarRepo == nil || scheduleRepo == nil {
		panic("nil repository passed to NewCalendarHandler")
	}
	return &CalendarHandler{CalendarRepo: calendarRepo, ScheduleRepo: scheduleRepo}
}

type calendarBody struct {
	NormalScheduleID *uint64  `json:"normal_schedule_id"`
	SummerScheduleID *uint64  `json:"summer_schedule_id"`
	WinterScheduleID *uint64  `json:"winter_schedule_id"`
	NormalStartDate  *string  `json:"normal_start_date"`
	SummerStartDate  *string  `json:"summer_start_date"`
	WinterStartDate  *string  `json:"winter_start_date"`
	ClosedDays       []string `json:"closed_days"`
}

type calendarView struct {
	ID               uint64   `json:"id"`
	NormalScheduleID *uint64  `json:"normal_schedule_id"`
	SummerScheduleID *uint64  `json:"summer_schedule_id"`
	WinterScheduleID *uint64  `json:"winter_schedule_id"`
	NormalStartDate  *string  `json:"normal_start_date"`
	SummerStartDate  *string  `json:"summer_start_date"`
	WinterStartDate  *string  `json:"winter_start_date"`
	ClosedDays       []string `json:"closed_days"`
	Configured       bool     `json:"configured"`
}

func viewCalendar(cal *model.Calendar) calendarView {
	fmtDate := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(dateLayout)
		return &s
	}
	closed := make([]string, 0, len(cal.ClosedDays))
	for _, d := range cal.ClosedDays {
		closed = append(closed, d.Format(dateLayout))
	}
	return calendarView{
		ID:               cal.ID,
		NormalScheduleID: cal.NormalScheduleID,
		SummerScheduleID: cal.SummerScheduleID,
		WinterScheduleID: cal.WinterScheduleID,
		NormalStartDate:  fmtDate(cal.NormalStartDate),
		SummerStartDate:  fmtDate(cal.SummerStartDate),
		WinterStartDate:  fmtDate(cal.WinterStartDate),
		ClosedDays:       closed,
		Configured:       cal.Configured(),
	}
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, *s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *CalendarHandler) bindCalendar(c echo.Context, cal *model.Calendar) error {
	var body calendarBody
	if err := c.Bind(&body); err != nil {
		return errors.New("invalid request body")
	}
	var err error
	if cal.NormalStartDate, err = parseDatePtr(body.NormalStartDate); err != nil {
		return errors.New("normal_start_date must be formatted YYYY-MM-DD")
	}
	if cal.SummerStartDate, err = parseDatePtr(body.SummerStartDate); err != nil {
		return errors.New("summer_start_date must be formatted YYYY-MM-DD")
	}
	if cal.WinterStartDate, err = parseDatePtr(body.WinterStartDate); err != nil {
		return errors.New("winter_start_date must be formatted YYYY-MM-DD")
	}
	cal.NormalScheduleID = body.NormalScheduleID
	cal.SummerScheduleID = body.SummerScheduleID
	cal.WinterScheduleID = body.WinterScheduleID
	cal.ClosedDays = cal.ClosedDays[:0]
	for _, raw := range body.ClosedDays {
		day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return errors.New("closed_days entries must be formatted YYYY-MM-DD")
		}
		cal.ClosedDays = append(cal.ClosedDays, day)
	}
	// The three start dates must keep their seasonal order when all
	// are present.
	if cal.NormalStartDate != nil && cal.SummerStartDate != nil && cal.WinterStartDate != nil {
		if !cal.NormalStartDate.Before(*cal.SummerStartDate) || !cal.SummerStartDate.Before(*cal.WinterStartDate) {
			return errors.New("start dates must be ordered normal < summer < winter")
		}
	}
	return nil
}

// Create handles POST /v1/calendars.
func (h *CalendarHandler) Create(c echo.Context) error {
	var cal model.Calendar
	if err := h.bindCalendar(c, &cal); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.CalendarRepo.Create(c.Request().Context(), &cal); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create calendar"})
	}
	return c.JSON(http.StatusCreated, viewCalendar(&cal))
}

// Get handles GET /v1/calendars/:id.
func (h *CalendarHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cal, err := h.CalendarRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewCalendar(cal))
}

// Update handles PUT /v1/calendars/:id and replaces the seasonal
// configuration wholesale.
func (h *CalendarHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cal, err := h.CalendarRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.bindCalendar(c, cal); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.CalendarRepo.Update(c.Request().Context(), cal); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update calendar"})
	}
	updated, err := h.CalendarRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewCalendar(updated))
}

// Delete handles DELETE /v1/calendars/:id.
func (h *CalendarHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.CalendarRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddClosedDay handles POST /v1/calendars/:id/closed-days.
func (h *CalendarHandler) AddClosedDay(c echo.Context) error {
	return h.changeClosedDay(c, h.CalendarRepo.AddClosedDay, http.StatusCreated)
}

// RemoveClosedDay handles DELETE /v1/calendars/:id/closed-days.
func (h *CalendarHandler) RemoveClosedDay(c echo.Context) error {
	return h.changeClosedDay(c, h.CalendarRepo.RemoveClosedDay, http.StatusOK)
}

func (h *CalendarHandler) changeClosedDay(c echo.Context, op func(ctx context.Context, calendarID uint64, day time.Time) error, okStatus int) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.CalendarRepo.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		Day string `json:"day"`
	}
	if err := c.Bind(&body); err != nil || body.Day == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day is required"})
	}
	day, err := time.ParseInLocation(dateLayout, body.Day, time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be formatted YYYY-MM-DD"})
	}
	if err := op(c.Request().Context(), id, day); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update closed days"})
	}
	return c.JSON(okStatus, echo.Map{"day": body.Day})
}

// ResolveRange handles GET /v1/calendars/:id/schedules?from=&to=.  It
// resolves the effective schedule for every day in the inclusive range
// and reports explicitly closed days.  The range is capped at 92 days.
func (h *CalendarHandler) ResolveRange(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cal, err := h.CalendarRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	from, err := time.ParseInLocation(dateLayout, c.QueryParam("from"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be formatted YYYY-MM-DD"})
	}
	to, err := time.ParseInLocation(dateLayout, c.QueryParam("to"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be formatted YYYY-MM-DD"})
	}
	if to.Before(from) || to.Sub(from) > 92*24*time.Hour {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "range must be ascending and at most 92 days"})
	}

	type dayView struct {
		Day    string   `json:"day"`
		Closed bool     `json:"closed"`
		Hours  []string `json:"hours"`
	}
	out := make([]dayView, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		dv := dayView{Day: day.Format(dateLayout), Hours: []string{}}
		if cal.ClosedOn(day) {
			dv.Closed = true
			out = append(out, dv)
			continue
		}
		schedule, err := availability.ResolveSchedule(c.Request().Context(), h.ScheduleRepo, cal, day)
		if err != nil {
			status, msg := availabilityStatus(err)
			return c.JSON(status, echo.Map{"error": msg, "day": dv.Day})
		}
		dv.Hours = schedule.HourStrings()
		dv.Closed = len(dv.Hours) == 0
		out = append(out, dv)
	}
	return c.JSON(http.StatusOK, out)
}
