package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-booking-gateway/internal/clinicapi"
	"clinic-booking-gateway/internal/handlers"
	"clinic-booking-gateway/internal/middleware"
)

// SetupRoutes configures the gateway's routes.
func SetupRoutes(router *gin.Engine, clinic *clinicapi.Client, loc *time.Location, log *zap.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))

	bookingHandler := handlers.NewBookingHandler(clinic, log, loc)

	// Everything under /api/v1 rides on the browser's session token,
	// which the clinic API client forwards with each upstream call.
	api := router.Group("/api/v1")
	api.Use(middleware.SessionMiddleware())
	{
		bookingRoutes := api.Group("/booking")
		{
			// Doctor list the picker is driven by
			bookingRoutes.GET("/doctors", bookingHandler.GetDoctors)

			// Per-day slot sets for one doctor
			bookingRoutes.GET("/availability/:doctorId", bookingHandler.GetAvailability)

			// The 42-cell month grid
			bookingRoutes.GET("/calendar/:doctorId", bookingHandler.GetCalendar)

			// Booking confirmation
			bookingRoutes.POST("/appointments", bookingHandler.CreateBooking)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
