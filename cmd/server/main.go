package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/config"
	"github.com/lukbre/ticketline/internal/database"
	"github.com/lukbre/ticketline/internal/handler"
	"github.com/lukbre/ticketline/internal/middleware"
	"github.com/lukbre/ticketline/internal/queue"
	"github.com/lukbre/ticketline/internal/repository"
	"github.com/lukbre/ticketline/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use env vars

	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	store := repository.New(db)
	svc := booking.NewService(store)

	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, rate limiting and response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(store, cfg))
	router.RegisterPublic(e, handler.NewBrowseHandler(svc), config.LoadCacheConfig(), rdb)
	router.RegisterBooking(e, handler.NewBookingHandler(svc), cfg.JWTSecret)

	// Background consumer for order and reservation events.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			logrus.WithError(err).Error("order consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
