package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	restaurantRepo := repository.NewRestaurantRepo(db)
	tableRepo := repository.NewTableRepo(db)
	calendarRepo := repository.NewCalendarRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	handlers := router.Handlers{
		Restaurant:   handler.NewRestaurantHandler(restaurantRepo, calendarRepo),
		Table:        handler.NewTableHandler(tableRepo, restaurantRepo),
		Calendar:     handler.NewCalendarHandler(calendarRepo, scheduleRepo),
		Schedule:     handler.NewScheduleHandler(scheduleRepo, calendarRepo),
		Availability: handler.NewAvailabilityHandler(restaurantRepo, tableRepo, calendarRepo, scheduleRepo, reservationRepo),
		Order:        handler.NewOrderHandler(orderRepo, restaurantRepo),
		Reservation:  handler.NewReservationHandler(reservationRepo, tableRepo, orderRepo),
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e)
	router.RegisterAPI(e, handlers, cfg.JWTSecret, rdb)

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
