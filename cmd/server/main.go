package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/config"
	"github.com/fcornetti/booking-yoga-system/internal/database"
	"github.com/fcornetti/booking-yoga-system/internal/handlers"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
	"github.com/fcornetti/booking-yoga-system/internal/security"
	"github.com/fcornetti/booking-yoga-system/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.EnsureSchema(); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Keep hosted databases from pausing between requests
	var keepalive *database.Keepalive
	if cfg.KeepaliveInterval > 0 {
		keepalive = database.NewKeepalive(db, cfg.KeepaliveInterval)
		keepalive.Start()
		defer keepalive.Stop()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	jwtManager := security.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(userRepo, emailService, jwtManager)
	classService := service.NewClassService(classRepo)
	bookingService := service.NewBookingService(bookingRepo)

	// Initialize handlers
	middleware := handlers.NewMiddleware(jwtManager)
	authHandler := handlers.NewAuthHandler(authService)
	classHandler := handlers.NewClassHandler(classService)
	bookingHandler := handlers.NewBookingHandler(bookingService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /users", authHandler.Register)
	mux.HandleFunc("GET /verify", authHandler.Verify)
	mux.HandleFunc("POST /resend-verification", authHandler.ResendVerification)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /password-reset/request", authHandler.RequestPasswordReset)
	mux.HandleFunc("POST /password-reset/confirm", authHandler.ResetPassword)
	mux.HandleFunc("POST /classes", classHandler.Create)
	mux.HandleFunc("GET /classes", classHandler.List)
	mux.HandleFunc("PUT /classes/{id}/cancel", classHandler.Cancel)

	// Protected booking routes
	mux.HandleFunc("POST /bookings", middleware.RequireAuth(bookingHandler.Create))
	mux.HandleFunc("GET /bookings", middleware.RequireAuth(bookingHandler.List))
	mux.HandleFunc("PUT /bookings/{id}/cancel", middleware.RequireAuth(bookingHandler.Cancel))

	// Wrap with logging middleware
	handler := handlers.LogRequests(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
