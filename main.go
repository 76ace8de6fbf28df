package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/butchersbasket/api/api"
	"github.com/butchersbasket/api/auth"
	"github.com/butchersbasket/api/config"
	"github.com/butchersbasket/api/datastore"
	"github.com/butchersbasket/api/models"
	rh "github.com/butchersbasket/api/route-handlers"
	_ "github.com/lib/pq"
)

const schemaTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := datastore.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()
	log.Println("Database connection successful")

	schemaCtx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	err = datastore.EnsureSchema(schemaCtx, db)
	cancel()
	if err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	userRepo := datastore.NewUserRepository(db)
	productCollection := datastore.NewCollection(db, models.Product.Table)
	flashSaleCollection := datastore.NewCollection(db, models.FlashSale.Table)

	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := rh.NewAuthHandler(userRepo, tokenIssuer)
	productHandler := rh.NewResourceHandler(models.Product, productCollection)
	flashSaleHandler := rh.NewResourceHandler(models.FlashSale, flashSaleCollection)

	router := api.SetupRoutes(cfg, authHandler, productHandler, flashSaleHandler)

	startServer(cfg, router)
}

func startServer(cfg *config.Config, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
