package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// TableHandler serves table CRUD within a restaurant's floor plan.
type TableHandler struct {
	TableRepo      *repository.TableRepo
	RestaurantRepo *repository.RestaurantRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tableRepo *repository.TableRepo, restaurantRepo *repository.RestaurantRepo) *TableHandler {
	if tableRepo == nil || restaurantRepo == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{TableRepo: tableRepo, RestaurantRepo: restaurantRepo}
}

type tableView struct {
	ID           uint64 `json:"id"`
	RestaurantID uint64 `json:"restaurant_id"`
	XPosition    uint32 `json:"x_position"`
	YPosition    uint32 `json:"y_position"`
	MinChairs    uint32 `json:"min_chairs"`
	MaxChairs    uint32 `json:"max_chairs"`
	IsActive     bool   `json:"is_active"`
}

func viewTable(t *model.Table) tableView {
	return tableView{
		ID:           t.ID,
		RestaurantID: t.RestaurantID,
		XPosition:    t.XPosition,
		YPosition:    t.YPosition,
		MinChairs:    t.MinChairs,
		MaxChairs:    t.MaxChairs,
		IsActive:     t.IsActive,
	}
}

// Create handles POST /v1/restaurants/:id/tables.
func (h *TableHandler) Create(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.RestaurantRepo.GetByID(c.Request().Context(), restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		XPosition uint32 `json:"x_position"`
		YPosition uint32 `json:"y_position"`
		MinChairs uint32 `json:"min_chairs"`
		MaxChairs uint32 `json:"max_chairs"`
		IsActive  *bool  `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.XPosition == 0 || body.YPosition == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "x_position and y_position must be positive"})
	}
	if body.MinChairs == 0 || body.MaxChairs < body.MinChairs {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_chairs must be positive and not exceed max_chairs"})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	t := &model.Table{
		RestaurantID: restaurantID,
		XPosition:    body.XPosition,
		YPosition:    body.YPosition,
		MinChairs:    body.MinChairs,
		MaxChairs:    body.MaxChairs,
		IsActive:     active,
	}
	if err := h.TableRepo.Create(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a table already occupies this position"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
	}
	return c.JSON(http.StatusCreated, viewTable(t))
}

// ListByRestaurant handles GET /v1/restaurants/:id/tables.
func (h *TableHandler) ListByRestaurant(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	tables, err := h.TableRepo.ListByRestaurant(c.Request().Context(), restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]tableView, 0, len(tables))
	for _, t := range tables {
		out = append(out, viewTable(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/tables/:id.
func (h *TableHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.TableRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewTable(t))
}

// Update handles PATCH /v1/tables/:id.
func (h *TableHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.TableRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		XPosition *uint32 `json:"x_position"`
		YPosition *uint32 `json:"y_position"`
		MinChairs *uint32 `json:"min_chairs"`
		MaxChairs *uint32 `json:"max_chairs"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.XPosition != nil {
		cur.XPosition = *body.XPosition
	}
	if body.YPosition != nil {
		cur.YPosition = *body.YPosition
	}
	if body.MinChairs != nil {
		cur.MinChairs = *body.MinChairs
	}
	if body.MaxChairs != nil {
		cur.MaxChairs = *body.MaxChairs
	}
	if body.IsActive != nil {
		cur.IsActive = *body.IsActive
	}
	if cur.XPosition == 0 || cur.YPosition == 0 || cur.MinChairs == 0 || cur.MaxChairs < cur.MinChairs {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table geometry or chair range"})
	}
	if err := h.TableRepo.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a table already occupies this position"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update table"})
	}
	return c.JSON(http.StatusOK, viewTable(cur))
}

// Delete handles DELETE /v1/tables/:id.
func (h *TableHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.TableRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
