package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/AUDL2018/tiny-message-api/docs"
	"github.com/AUDL2018/tiny-message-api/internal/api"
	"github.com/AUDL2018/tiny-message-api/internal/auth"
	"github.com/AUDL2018/tiny-message-api/internal/config"
	"github.com/AUDL2018/tiny-message-api/internal/metrics"
	"github.com/AUDL2018/tiny-message-api/internal/storage"
)

// @title Tiny Message API
// @version 1.0
// @description Minimal authenticated messaging API with session cookies
// @host localhost:8080
// @BasePath /
// @schemes http

// @securityDefinitions.apikey ApiKeyAuth
// @in cookie
// @name session
func main() {
	// Init Metrics
	metrics.Init()

	// Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded")

	// Setup cookie signing secret
	auth.SetSecret(cfg.Auth.SessionSecret)

	// Init PostgreSQL
	db, err := storage.NewStorage(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.DB.Close()
	log.Println("PostgreSQL connected")

	if cfg.Database.ResetSchema {
		if err := db.ResetSchema(context.Background()); err != nil {
			log.Fatalf("Failed to reset schema: %v", err)
		}
		log.Println("Schema recreated, all tables are empty")
	}

	// Sessions live in process memory and die with it
	sessions := auth.NewSessionStore()

	// Init API
	apiHandler := api.NewAPI(db, sessions)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: apiHandler.Router(),
	}

	// Graceful Shutdown Setup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting API server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done() // Wait for interrupt signal
	log.Println("Shutdown initiated...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	log.Println("Graceful shutdown complete")
}
