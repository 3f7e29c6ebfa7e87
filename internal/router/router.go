// Package router wires HTTP routes to their handlers and attaches the
// authentication and authorization middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
)

// Handlers groups every handler the API exposes.
type Handlers struct {
	Restaurant   *handler.RestaurantHandler
	Table        *handler.TableHandler
	Calendar     *handler.CalendarHandler
	Schedule     *handler.ScheduleHandler
	Availability *handler.AvailabilityHandler
	Order        *handler.OrderHandler
	Reservation  *handler.ReservationHandler
}

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the protected /v1 surface.  Every route runs
// the JWT middleware; reads accept both roles while mutations require
// ADMIN.  Availability reads additionally go through the Redis response
// cache when a client is available.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))

	read := middleware.RequireRole("ADMIN", "STANDARD")
	admin := middleware.RequireRole("ADMIN")
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// restaurants
	api.POST("/restaurants", h.Restaurant.Create, admin)
	api.GET("/restaurants", h.Restaurant.List, read)
	api.GET("/restaurants/:id", h.Restaurant.Get, read)
	api.PATCH("/restaurants/:id", h.Restaurant.Update, admin)
	api.DELETE("/restaurants/:id", h.Restaurant.Delete, admin)
	api.PUT("/restaurants/:id/calendar", h.Restaurant.AssignCalendar, admin)

	// tables
	api.POST("/restaurants/:id/tables", h.Table.Create, admin)
	api.GET("/restaurants/:id/tables", h.Table.ListByRestaurant, read)
	api.GET("/tables/:id", h.Table.Get, read)
	api.PATCH("/tables/:id", h.Table.Update, admin)
	api.DELETE("/tables/:id", h.Table.Delete, admin)

	// calendars and schedules
	api.POST("/calendars", h.Calendar.Create, admin)
	api.GET("/calendars/:id", h.Calendar.Get, read)
	api.PUT("/calendars/:id", h.Calendar.Update, admin)
	api.DELETE("/calendars/:id", h.Calendar.Delete, admin)
	api.POST("/calendars/:id/closed-days", h.Calendar.AddClosedDay, admin)
	api.DELETE("/calendars/:id/closed-days", h.Calendar.RemoveClosedDay, admin)
	api.GET("/calendars/:id/schedules", h.Calendar.ResolveRange, read)
	api.POST("/calendars/:id/schedules", h.Schedule.Create, admin)
	api.GET("/calendars/:id/schedule-list", h.Schedule.ListByCalendar, read)
	api.GET("/schedules/:id", h.Schedule.Get, read)
	api.PATCH("/schedules/:id", h.Schedule.Update, admin)
	api.DELETE("/schedules/:id", h.Schedule.Delete, admin)

	// availability
	api.GET("/tables/:id/availability", h.Availability.TableDay, read, cache)
	api.GET("/restaurants/:id/availability", h.Availability.RestaurantDay, read, cache)

	// orders
	api.POST("/restaurants/:id/orders", h.Order.Create, read)
	api.GET("/orders/:id", h.Order.Get, read)
	api.POST("/orders/:id/cancel", h.Order.Cancel, read)

	// reservations
	api.POST("/tables/:id/reservations", h.Reservation.Create, read)
	api.GET("/tables/:id/reservations", h.Reservation.ListByTable, read)
	api.GET("/reservations/:id", h.Reservation.Get, read)
	api.PATCH("/reservations/:id", h.Reservation.Reschedule, read)
	api.DELETE("/reservations/:id", h.Reservation.Delete, admin)
}
