// cmd/server/main.go
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

	"github.com/gin-gonic/gin"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/database"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/mockups"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/router"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/supplier"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/tasks"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed the shop owner account and default settings
	if err := database.SeedInitialData(db, cfg); err != nil {
		log.Fatal("Failed to seed initial data:", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(db, cfg)

	// Start the nightly supplier sync when enabled
	if cfg.Sync.Enabled && cfg.Supplier.Configured() {
		client, err := supplier.NewClient(cfg.Supplier)
		if err != nil {
			log.Fatal("Failed to create supplier client:", err)
		}
		resolver := mockups.NewResolver(cfg.Uploads.MockupDir, cfg.Uploads.BulkMockupDir)
		syncTask := tasks.NewInventorySyncTask(services.NewCatalogService(db, client, resolver), cfg)
		if err := syncTask.Start(); err != nil {
			log.Fatal("Failed to start inventory sync task:", err)
		}
		defer syncTask.Stop()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
