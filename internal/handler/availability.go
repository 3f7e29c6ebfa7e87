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

// AvailabilityHandler answers the free-slot queries for a single table
// and for every table of a restaurant.
type AvailabilityHandler struct {
	RestaurantRepo  *repository.RestaurantRepo
	TableRepo       *repository.TableRepo
	CalendarRepo    *repository.CalendarRepo
	ScheduleRepo    *repository.ScheduleRepo
	ReservationRepo *repository.ReservationRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(
	restaurantRepo *repository.RestaurantRepo,
	tableRepo *repository.TableRepo,
	calendarRepo *repository.CalendarRepo,
	scheduleRepo *repository.ScheduleRepo,
	reservationRepo *repository.ReservationRepo,
) *AvailabilityHandler {
	if restaurantRepo == nil || tableRepo == nil || calendarRepo == nil || scheduleRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{
		RestaurantRepo:  restaurantRepo,
		TableRepo:       tableRepo,
		CalendarRepo:    calendarRepo,
		ScheduleRepo:    scheduleRepo,
		ReservationRepo: reservationRepo,
	}
}

type dayAvailability struct {
	Day    string   `json:"day"`
	Closed bool     `json:"closed"`
	Slots  []string `json:"slots"`
}

type tableAvailability struct {
	TableID uint64   `json:"table_id"`
	Slots   []string `json:"slots"`
}

// resolveOpening loads the restaurant's calendar and resolves the
// opening hours for the day.  A closed day or an empty override yields
// closed=true with no error.
func (h *AvailabilityHandler) resolveOpening(ctx context.Context, restaurant *model.Restaurant, day time.Time) (hours []model.ClockTime, closed bool, err error) {
	if restaurant.CalendarID == nil {
		return nil, false, availability.ErrNoCalendar
	}
	cal, err := h.CalendarRepo.GetByID(ctx, *restaurant.CalendarID)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return nil, false, availability.ErrNoCalendar
		}
		return nil, false, err
	}
	if cal.ClosedOn(day) {
		return nil, true, nil
	}
	schedule, err := availability.ResolveSchedule(ctx, h.ScheduleRepo, cal, day)
	if err != nil {
		return nil, false, err
	}
	return schedule.OpenedHours, len(schedule.OpenedHours) == 0, nil
}

// TableDay handles GET /v1/tables/:id/availability?day=.
func (h *AvailabilityHandler) TableDay(c echo.Context) error {
	tableID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	day, err := queryDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	table, err := h.TableRepo.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	restaurant, err := h.RestaurantRepo.GetByID(ctx, table.RestaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	hours, closed, err := h.resolveOpening(ctx, restaurant, day)
	if err != nil {
		status, msg := availabilityStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	out := dayAvailability{Day: day.Format(dateLayout), Closed: closed, Slots: []string{}}
	if closed {
		return c.JSON(http.StatusOK, out)
	}
	reservations, err := h.ReservationRepo.ActiveByTableOnDay(ctx, tableID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	occupied := availability.OccupiedSlots(reservations, hours)
	out.Slots = availability.AvailableSlots(hours, occupied)
	return c.JSON(http.StatusOK, out)
}

// RestaurantDay handles GET /v1/restaurants/:id/availability?day= and
// reports free slots per active table.
func (h *AvailabilityHandler) RestaurantDay(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	day, err := queryDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	restaurant, err := h.RestaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	hours, closed, err := h.resolveOpening(ctx, restaurant, day)
	if err != nil {
		status, msg := availabilityStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	out := struct {
		Day    string              `json:"day"`
		Closed bool                `json:"closed"`
		Tables []tableAvailability `json:"tables"`
	}{Day: day.Format(dateLayout), Closed: closed, Tables: []tableAvailability{}}
	if closed {
		return c.JSON(http.StatusOK, out)
	}
	tables, err := h.TableRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	for i := range tables {
		if !tables[i].IsActive {
			continue
		}
		reservations, err := h.ReservationRepo.ActiveByTableOnDay(ctx, tables[i].ID, day)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		occupied := availability.OccupiedSlots(reservations, hours)
		out.Tables = append(out.Tables, tableAvailability{
			TableID: tables[i].ID,
			Slots:   availability.AvailableSlots(hours, occupied),
		})
	}
	return c.JSON(http.StatusOK, out)
}
