// Package handler contains the echo HTTP handlers of the reservation
// service.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/availability"
)

const dateLayout = "2006-01-02"

// pathID parses the named path parameter as a positive uint64.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// queryDay parses the "day" query parameter as a YYYY-MM-DD date in UTC.
func queryDay(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("day")
	if raw == "" {
		return time.Time{}, errors.New("day query parameter is required")
	}
	day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, errors.New("day must be formatted YYYY-MM-DD")
	}
	return day, nil
}

// getUserID extracts the user_id claim stored by the JWT middleware and
// converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// availabilityStatus maps the scheduling core's error kinds to HTTP
// responses.  Configuration problems are unprocessable rather than
// server faults: the request was fine, the calendar data is not.
func availabilityStatus(err error) (int, string) {
	switch {
	case errors.Is(err, availability.ErrNoCalendar):
		return http.StatusUnprocessableEntity, "restaurant has no calendar assigned"
	case errors.Is(err, availability.ErrCalendarNotConfigured):
		return http.StatusUnprocessableEntity, "calendar is not configured"
	case errors.Is(err, availability.ErrScheduleMissing):
		return http.StatusUnprocessableEntity, "no schedule found for the requested day"
	case errors.Is(err, availability.ErrInvalidInterval):
		return http.StatusUnprocessableEntity, "start_reserve must be before finish_reserve"
	case errors.Is(err, availability.ErrInvalidChairCount):
		return http.StatusUnprocessableEntity, "assigned_chairs outside table bounds"
	}
	return http.StatusInternalServerError, "database error"
}
