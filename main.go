package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"clinic-booking-gateway/internal/clinicapi"
	"clinic-booking-gateway/internal/config"
	"clinic-booking-gateway/internal/logger"
	"clinic-booking-gateway/internal/routes"
)

func main() {
	// Load environment variables; running without a .env file is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer zlog.Sync()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Error resolving time zone: %v", err)
	}

	// Client for the clinic backend this gateway fronts
	clinic := clinicapi.NewClient(cfg.ClinicAPI.BaseURL,
		clinicapi.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.ClinicAPI.TimeoutSeconds) * time.Second,
		}),
		clinicapi.WithLogger(zlog),
	)

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, clinic, loc, zlog)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("booking gateway listening",
		zap.String("addr", serverAddr),
		zap.String("clinicApi", cfg.ClinicAPI.BaseURL))
	if err := router.Run(serverAddr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
