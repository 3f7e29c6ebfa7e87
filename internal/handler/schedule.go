package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// ScheduleHandler serves schedule CRUD under a calendar.
type ScheduleHandler struct {
	ScheduleRepo *repository.ScheduleRepo
	CalendarRepo *repository.CalendarRepo
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(scheduleRepo *repository.ScheduleRepo, calendarRepo *repository.CalendarRepo) *ScheduleHandler {
	if scheduleRepo == nil || calendarRepo == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{ScheduleRepo: scheduleRepo, CalendarRepo: calendarRepo}
}

type scheduleBody struct {
	Day   *string  `json:"day"`
	Hours []string `json:"hours"`
}

type scheduleView struct {
	ID         uint64   `json:"id"`
	CalendarID uint64   `json:"calendar_id"`
	Day        *string  `json:"day"`
	Hours      []string `json:"hours"`
}

func viewSchedule(s *model.Schedule) scheduleView {
	v := scheduleView{ID: s.ID, CalendarID: s.CalendarID, Hours: s.HourStrings()}
	if s.Day != nil {
		d := s.Day.Format(dateLayout)
		v.Day = &d
	}
	return v
}

// parseHours converts the wire representation into ClockTime values and
// enforces the half-hour grid plus strict ascending order.
func parseHours(raw []string) ([]model.ClockTime, error) {
	hours := make([]model.ClockTime, 0, len(raw))
	for _, s := range raw {
		ct, err := model.ParseClockTime(s)
		if err != nil {
			return nil, errors.New("hours must be formatted HH:MM:SS")
		}
		if !ct.OnHalfHour() {
			return nil, errors.New("hours must fall on the hour or half hour")
		}
		if n := len(hours); n > 0 && ct <= hours[n-1] {
			return nil, errors.New("hours must be strictly ascending")
		}
		hours = append(hours, ct)
	}
	return hours, nil
}

// Create handles POST /v1/calendars/:id/schedules.  A null day makes a
// weekly template schedule; a concrete day makes an override for that
// date and at most one override per date is allowed.
func (h *ScheduleHandler) Create(c echo.Context) error {
	calendarID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.CalendarRepo.GetByID(c.Request().Context(), calendarID); err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body scheduleBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	schedule := model.Schedule{CalendarID: calendarID}
	if body.Day != nil && *body.Day != "" {
		day, err := time.ParseInLocation(dateLayout, *body.Day, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be formatted YYYY-MM-DD"})
		}
		schedule.Day = &day
	}
	if schedule.OpenedHours, err = parseHours(body.Hours); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.ScheduleRepo.Create(c.Request().Context(), &schedule); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "an override already exists for this day"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create schedule"})
	}
	return c.JSON(http.StatusCreated, viewSchedule(&schedule))
}

// ListByCalendar handles GET /v1/calendars/:id/schedule-list.
func (h *ScheduleHandler) ListByCalendar(c echo.Context) error {
	calendarID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	schedules, err := h.ScheduleRepo.ListByCalendar(c.Request().Context(), calendarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]scheduleView, 0, len(schedules))
	for _, s := range schedules {
		views = append(views, viewSchedule(s))
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /v1/schedules/:id.
func (h *ScheduleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	schedule, err := h.ScheduleRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if schedule == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	}
	return c.JSON(http.StatusOK, viewSchedule(schedule))
}

// Update handles PATCH /v1/schedules/:id and replaces the opening
// hours wholesale.  A schedule's calendar and day are immutable;
// delete and recreate to move an override.
func (h *ScheduleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	schedule, err := h.ScheduleRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if schedule == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	}
	var body scheduleBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	hours, err := parseHours(body.Hours)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.ScheduleRepo.ReplaceHours(c.Request().Context(), id, hours); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update schedule"})
	}
	schedule.OpenedHours = hours
	return c.JSON(http.StatusOK, viewSchedule(schedule))
}

// Delete handles DELETE /v1/schedules/:id.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.ScheduleRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
