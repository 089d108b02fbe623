package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/johe/social-app/internal/api"
	"github.com/johe/social-app/internal/config"
	"github.com/johe/social-app/internal/repository/postgres"
	"github.com/johe/social-app/internal/service"
	"github.com/johe/social-app/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// The signing key is loaded once here and handed to the issuer;
	// nothing else reads it
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Initialize services
	services := service.NewServices(repos, issuer, cfg)

	// Initialize router
	router := api.NewRouter(services, issuer, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Sweep expired refresh tokens in the background; lookups also purge
	// lazily, this just keeps the table from accumulating dead rows
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				n, err := repos.RefreshToken.DeleteExpired(sweepCtx, time.Now())
				if err != nil {
					log.Printf("ERROR [main] expired token sweep failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("Removed %d expired refresh tokens", n)
				}
			}
		}
	}()

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweep()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
