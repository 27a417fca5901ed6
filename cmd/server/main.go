package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"movie-booking-platform/internal/cache"
	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/database"
	"movie-booking-platform/internal/handlers"
	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/repositories"
	"movie-booking-platform/internal/server"
	"movie-booking-platform/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if cfg.TMDB.APIKey == "" {
		log.Println("Warning: TMDB_API_KEY is not set, provider requests will be rejected")
	}

	// User directory: Postgres when reachable, otherwise in memory.
	var users services.UserRepository
	var pinger handlers.Pinger
	db, err := database.NewConnection(database.ConfigFrom(cfg.Database))
	if err != nil {
		log.Printf("Warning: Failed to connect to database: %v", err)
		log.Println("Continuing with an in-memory user directory...")
		users = repositories.NewMemoryUserRepository()
	} else {
		defer db.Close()
		log.Println("Database connection established successfully")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		ran, err := db.RunMigrations(ctx)
		cancel()
		if err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Printf("Applied %d pending migration(s)", ran)
		users = repositories.NewUserRepository(db.DB)
		pinger = db
	}

	// Fetch cache: Redis when configured and reachable, otherwise in memory.
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Cache.Backend == "redis" {
		client, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis at %s: %v, using in-memory cache", cfg.Redis.Addr, err)
		} else {
			redisStore := cache.NewRedisStore(client, cfg.Cache.KeyPrefix)
			defer redisStore.Close()
			store = redisStore
			log.Printf("Using Redis cache at %s", cfg.Redis.Addr)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	fetcher := cache.NewFetcher(store, &http.Client{Timeout: cfg.Cache.RequestTimeout}, cache.Config{
		TTL:        cfg.Cache.TTL,
		MaxRetries: cfg.Cache.MaxRetries,
		BaseDelay:  cfg.Cache.BaseDelay,
	}, cache.WithMetrics(cache.NewMetrics(registry)))

	sessionStore, err := middleware.NewSessionStore(cfg.Session, cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to create session store:", err)
	}

	deps := server.Dependencies{
		Config:   cfg,
		Users:    users,
		Fetcher:  fetcher,
		Sessions: sessionStore,
		Gatherer: registry,
		DB:       pinger,
	}

	api := server.New(deps)
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      api,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-quit:
		log.Printf("Received signal %s. Shutting down server...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Graceful server shutdown failed: %v", err)
	} else {
		log.Println("Server gracefully stopped.")
	}
}
