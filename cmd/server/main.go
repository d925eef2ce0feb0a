package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"fitbook-service/internal/app"
	"fitbook-service/internal/server"
)

func main() {
	godotenv.Load()
	ctx := context.Background()

	logger := app.NewLogger("fitbook")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL required")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
	} else {
		logger.Warn("REDIS_URL not set, open-slot cache disabled")
	}

	cache := app.NewSlotCache(rdb, 30*time.Second, logger)
	appInstance := app.New(app.NewPGStore(pool), cache, logger)

	router := gin.Default()

	// OAuth2 callback (must be before auth middleware)
	router.GET("/oauth2callback", appInstance.GoogleOAuth2CallbackHandler)

	router.Use(app.AuthMiddlewareFromEnv())

	api := router.Group("/api")
	{
		trainers := api.Group("/trainers")
		{
			trainers.POST("/:id/availability", appInstance.SetAvailabilityHandler)
			trainers.GET("/:id/availability", appInstance.ListAvailabilityHandler)
			trainers.PUT("/:id/availability/:rule_id", appInstance.UpdateAvailabilityHandler)
			trainers.DELETE("/:id/availability/:rule_id", appInstance.DeleteAvailabilityHandler)

			trainers.POST("/:id/holidays", appInstance.CreateHolidayHandler)
			trainers.GET("/:id/holidays", appInstance.ListHolidaysHandler)
			trainers.DELETE("/:id/holidays/:holiday_id", appInstance.DeleteHolidayHandler)

			trainers.GET("/:id/slots", appInstance.GetOpenSlotsHandler)
			trainers.POST("/:id/slots/generate", appInstance.GenerateSlotRangeHandler)
			trainers.POST("/:id/slots", appInstance.CreateSlotRangeHandler)
			trainers.DELETE("/:id/slots", appInstance.DeleteSlotDayHandler)

			trainers.POST("/:id/bookings", appInstance.CreateBookingHandler)
			trainers.GET("/:id/bookings", appInstance.ListBookingsHandler)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("/:id/accept", appInstance.AcceptBookingHandler)
			bookings.POST("/:id/decline", appInstance.DeclineBookingHandler)
			bookings.POST("/:id/cancel", appInstance.CancelBookingHandler)
		}

		// Google Calendar integration routes
		cal := api.Group("/calendar")
		{
			cal.GET("/auth", appInstance.GoogleAuthHandler)
			cal.GET("/events", appInstance.GetExternalEventsHandler)
			cal.GET("/calendars", appInstance.ListCalendarsHandler)
		}
	}

	server.Run(router)
}
