package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leftovers-app/leftovers/internal/config"
	"github.com/leftovers-app/leftovers/internal/handler"
	"github.com/leftovers-app/leftovers/internal/repository"
	"github.com/leftovers-app/leftovers/internal/service"
	"github.com/leftovers-app/leftovers/internal/service/geocode"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Database
	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("Connected to database")

	// 3. Setup Logic
	foodRepo := repository.NewFoodItemRepository(dbPool)
	userRepo := repository.NewUserRepository(dbPool)
	listingSvc := service.NewListingService(foodRepo, userRepo)

	if cfg.DefaultUserEmail != "" {
		user, err := userRepo.Ensure(ctx, cfg.DefaultUserEmail, cfg.DefaultUserName)
		if err != nil {
			log.Fatalf("Failed to ensure default user: %v", err)
		}
		fmt.Printf("Default user ready (id=%d)\n", user.ID)
	}

	var geocoder *geocode.Client
	if cfg.Geocoder.APIURL != "" {
		geocoder = geocode.NewClient(geocode.Config{
			APIURL:    cfg.Geocoder.APIURL,
			UserAgent: cfg.Geocoder.UserAgent,
		})
	}

	foodHandler := handler.NewFoodHandler(listingSvc, geocoder, cfg.DefaultRadiusKm)
	h := handler.NewHandler(foodHandler)

	// 4. Setup Server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: h,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		fmt.Printf("Starting server on port %s\n", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down server...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	fmt.Println("Server exiting")
}
