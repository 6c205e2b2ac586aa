package main

import (
	"context"
	"log"
	"strings"
	"time"

	"viajesglobal/config"
	"viajesglobal/handlers"
	"viajesglobal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	store, err := services.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	backend := services.NewBackendClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second)
	sessions := services.NewSessionService(backend, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHrs)*time.Hour)
	wizards := services.NewWizardService(backend, store)
	bookings := services.NewBookingService(backend, store)
	recovery := services.NewRecoveryService(backend, store)

	h := handlers.New(sessions, wizards, bookings, recovery, backend, store)

	// Set Gin mode
	if cfg.App.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Trusted proxies (deployment sits behind a proxy)
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS — allow configured frontend origins
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	for _, u := range strings.Split(cfg.Frontend.Origins, ",") {
		u = strings.TrimSpace(u)
		if u != "" {
			allowedOrigins = append(allowedOrigins, u)
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Idempotency-Hit"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	api := r.Group("/api")
	api.Use(h.AuthOptional)
	{
		api.GET("/health", h.Health)

		// Catalog
		api.GET("/flights", h.ListFlights)
		api.GET("/flights/:id", h.GetFlight)
		api.GET("/hotels", h.ListHotels)
		api.GET("/hotels/:id", h.GetHotel)
		api.GET("/activities", h.ListActivities)
		api.GET("/activities/:id", h.GetActivity)

		// Auth
		api.POST("/auth/login", h.Login)
		api.GET("/auth/check", h.CheckAuth)
		api.POST("/auth/logout", h.Logout)

		// Password recovery
		api.POST("/auth/forgot-password", h.ForgotPassword)
		api.POST("/auth/verify-code", h.VerifyRecoveryCode)
		api.POST("/auth/reset-password", h.ResetPassword)

		// Package wizard
		wizard := api.Group("/wizard")
		{
			wizard.POST("", h.CreateWizard)
			wizard.GET("/:id", h.GetWizard)
			wizard.GET("/:id/options", h.WizardOptions)
			wizard.POST("/:id/next", h.WizardNext)
			wizard.POST("/:id/previous", h.WizardPrevious)
			wizard.POST("/:id/jump", h.WizardJump)
			wizard.POST("/:id/select/flight", h.SelectFlight)
			wizard.POST("/:id/select/hotel", h.SelectHotel)
			wizard.POST("/:id/select/activity", h.SelectActivity)
			wizard.POST("/:id/contact", h.SetContact)
			wizard.GET("/:id/summary", h.WizardSummary)
			wizard.POST("/:id/book", h.Idempotency(24*time.Hour), h.SubmitBooking)
		}

		// Cart and bookings
		api.GET("/cart", h.Cart)
		api.DELETE("/bookings/:id", h.RemoveBooking)
	}

	// Authenticated-only surface
	auth := r.Group("/api")
	auth.Use(h.AuthRequired)
	{
		auth.PUT("/settings", h.UpdateSettings)
		auth.POST("/bookings/:id/pay", h.PayBooking)
		auth.GET("/bookings/:id/receipt", h.BookingReceipt)
	}

	log.Printf("🚀 %s starting on port %s", cfg.App.Name, cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
