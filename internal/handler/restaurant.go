package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// RestaurantHandler serves restaurant CRUD and calendar assignment.
type RestaurantHandler struct {
	RestaurantRepo *repository.RestaurantRepo
	CalendarRepo   *repository.CalendarRepo
}

// NewRestaurantHandler constructs a RestaurantHandler.
func NewRestaurantHandler(restaurantRepo *repository.RestaurantRepo, calendarRepo *repository.CalendarRepo) *RestaurantHandler {
	if restaurantRepo == nil || calendarRepo == nil {
		panic("nil repository passed to NewRestaurantHandler")
	}
	return &RestaurantHandler{RestaurantRepo: restaurantRepo, CalendarRepo: calendarRepo}
}

// addressMaxLengths bounds each address field.  Inputs are typed
// columns rather than a free-form object, validated here at the
// boundary.
var addressMaxLengths = []struct {
	name string
	max  int
	get  func(a *model.Address) string
}{
	{"street", 100, func(a *model.Address) string { return a.Street }},
	{"number", 10, func(a *model.Address) string { return a.Number }},
	{"city", 50, func(a *model.Address) string { return a.City }},
	{"province", 50, func(a *model.Address) string { return a.Province }},
	{"country", 50, func(a *model.Address) string { return a.Country }},
	{"postal_code", 10, func(a *model.Address) string { return a.PostalCode }},
}

func validateAddress(a *model.Address) error {
	for _, f := range addressMaxLengths {
		if len(f.get(a)) > f.max {
			return fmt.Errorf("address field %q must not exceed %d characters", f.name, f.max)
		}
	}
	return nil
}

type restaurantBody struct {
	Name    string        `json:"name"`
	Address model.Address `json:"address"`
	Active  *bool         `json:"active"`
}

type restaurantView struct {
	ID         uint64        `json:"id"`
	Name       string        `json:"name"`
	Address    model.Address `json:"address"`
	CalendarID *uint64       `json:"calendar_id,omitempty"`
	Active     bool          `json:"active"`
}

func viewRestaurant(re *model.Restaurant) restaurantView {
	return restaurantView{
		ID:         re.ID,
		Name:       re.Name,
		Address:    re.Address,
		CalendarID: re.CalendarID,
		Active:     re.Active,
	}
}

// Create handles POST /v1/restaurants.
func (h *RestaurantHandler) Create(c echo.Context) error {
	var body restaurantBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := validateAddress(&body.Address); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	active := true
	if body.Active != nil {
		active = *body.Active
	}
	re := &model.Restaurant{Name: strings.TrimSpace(body.Name), Address: body.Address, Active: active}
	if err := h.RestaurantRepo.Create(c.Request().Context(), re); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create restaurant"})
	}
	return c.JSON(http.StatusCreated, viewRestaurant(re))
}

// Get handles GET /v1/restaurants/:id.
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	re, err := h.RestaurantRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewRestaurant(re))
}

// List handles GET /v1/restaurants.
func (h *RestaurantHandler) List(c echo.Context) error {
	all, err := h.RestaurantRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]restaurantView, 0, len(all))
	for _, re := range all {
		out = append(out, viewRestaurant(re))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PATCH /v1/restaurants/:id.
func (h *RestaurantHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.RestaurantRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		Name    *string        `json:"name"`
		Address *model.Address `json:"address"`
		Active  *bool          `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		if strings.TrimSpace(*body.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Address != nil {
		if err := validateAddress(body.Address); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		cur.Address = *body.Address
	}
	if body.Active != nil {
		cur.Active = *body.Active
	}
	if err := h.RestaurantRepo.Update(c.Request().Context(), cur); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update restaurant"})
	}
	return c.JSON(http.StatusOK, viewRestaurant(cur))
}

// Delete handles DELETE /v1/restaurants/:id.
func (h *RestaurantHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.RestaurantRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignCalendar handles PUT /v1/restaurants/:id/calendar.  The body
// may carry a calendar_id or null to detach.
func (h *RestaurantHandler) AssignCalendar(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.RestaurantRepo.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		CalendarID *uint64 `json:"calendar_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CalendarID != nil {
		if _, err := h.CalendarRepo.GetByID(c.Request().Context(), *body.CalendarID); err != nil {
			if errors.Is(err, repository.ErrCalendarNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if err := h.RestaurantRepo.AssignCalendar(c.Request().Context(), id, body.CalendarID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not assign calendar"})
	}
	return c.JSON(http.StatusOK, echo.Map{"calendar_id": body.CalendarID})
}
