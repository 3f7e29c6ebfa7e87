package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// OrderHandler serves order creation, lookup and cancellation.
// Cancelling an order voids its reservations without deleting them.
type OrderHandler struct {
	OrderRepo      *repository.OrderRepo
	RestaurantRepo *repository.RestaurantRepo
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderRepo *repository.OrderRepo, restaurantRepo *repository.RestaurantRepo) *OrderHandler {
	if orderRepo == nil || restaurantRepo == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{OrderRepo: orderRepo, RestaurantRepo: restaurantRepo}
}

type orderView struct {
	ID           uint64 `json:"id"`
	RestaurantID uint64 `json:"restaurant_id"`
	UserID       uint64 `json:"user_id"`
	TotalCents   uint64 `json:"total_cents"`
	TotalDishes  uint32 `json:"total_dishes"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func viewOrder(o *model.Order) orderView {
	return orderView{
		ID:           o.ID,
		RestaurantID: o.RestaurantID,
		UserID:       o.UserID,
		TotalCents:   o.TotalCents,
		TotalDishes:  o.TotalDishes,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// Create handles POST /v1/restaurants/:id/orders.  The owning user
// comes from the verified token, never from the body.
func (h *OrderHandler) Create(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if _, err := h.RestaurantRepo.GetByID(c.Request().Context(), restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		TotalCents  uint64 `json:"total_cents"`
		TotalDishes uint32 `json:"total_dishes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	order := model.Order{
		RestaurantID: restaurantID,
		UserID:       userID,
		TotalCents:   body.TotalCents,
		TotalDishes:  body.TotalDishes,
	}
	if err := h.OrderRepo.Create(c.Request().Context(), &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create order"})
	}
	return c.JSON(http.StatusCreated, viewOrder(&order))
}

// Get handles GET /v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	order, err := h.OrderRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewOrder(order))
}

// Cancel handles POST /v1/orders/:id/cancel.  Voiding is terminal: a
// cancelled order cannot be cancelled again and its reservations stop
// counting toward occupancy immediately.
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.OrderRepo.Cancel(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrOrderCancelled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order is already cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	order, err := h.OrderRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewOrder(order))
}
