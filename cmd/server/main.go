package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/marelvy/linkpulse/internal/agent"
	"github.com/marelvy/linkpulse/internal/cache"
	"github.com/marelvy/linkpulse/internal/config"
	"github.com/marelvy/linkpulse/internal/geo"
	"github.com/marelvy/linkpulse/internal/handler"
	"github.com/marelvy/linkpulse/internal/logger"
	"github.com/marelvy/linkpulse/internal/middleware"
	"github.com/marelvy/linkpulse/internal/repository"
	"github.com/marelvy/linkpulse/internal/service"
)

func main() {
	// ============================================================
	// LOAD CONFIGURATION
	// ============================================================
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if cfg.IsDevelopment() {
		fmt.Printf("   Environment: %s\n", cfg.App.Environment)
		fmt.Printf("   Port: %s\n", cfg.Server.Port)
		fmt.Printf("   Database: %s (%s)\n", cfg.Database.Driver, cfg.Database.Path)
		fmt.Printf("   Base URL: %s\n", cfg.App.BaseURL)
	}

	// ============================================================
	// INITIALIZE LOGGER
	// ============================================================
	log := logger.New(cfg.Log)

	log.Info("starting linkpulse",
		"level", cfg.Log.Level,
		"format", cfg.Log.Format,
		"environment", cfg.App.Environment)

	// ============================================================
	// INITIALIZE ALIAS STORE
	// ============================================================
	var store repository.Store
	switch cfg.Database.Driver {
	case "postgres":
		store, err = repository.NewPostgresStore(cfg.Database.URL)
	default:
		store, err = repository.NewSQLiteStore(cfg.Database.Path)
	}
	if err != nil {
		log.Error("Failed to initialize alias store", "error", err.Error())
		os.Exit(1)
	}

	// ============================================================
	// INITIALIZE FAST CACHE (OPTIONAL)
	// ============================================================
	// No REDIS_ADDR means the service runs store-only for its whole
	// lifetime. A configured-but-unreachable Redis is a startup error:
	// silently degrading on a typo would be worse.
	var fastCache cache.Cache
	if cfg.CacheEnabled() {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Failed to close Redis client", "error", err.Error())
			}
		}()
		fastCache = redisCache
		log.Info("Redis connected", "addr", cfg.Redis.Addr)
	} else {
		log.Info("fast cache disabled, running store-only")
	}

	// ============================================================
	// INITIALIZE GEO LOOKUP (OPTIONAL)
	// ============================================================
	var locate geo.Lookup
	if cfg.Geo.DBPath != "" {
		maxmind, err := geo.OpenMaxMind(cfg.Geo.DBPath)
		if err != nil {
			log.Error("Failed to open GeoIP database", "error", err.Error())
			os.Exit(1)
		}
		defer maxmind.Close()
		locate = maxmind.Lookup
		log.Info("geo lookup enabled", "db", cfg.Geo.DBPath)
	}

	// ============================================================
	// INITIALIZE SERVICE AND HANDLERS
	// ============================================================
	svc := service.New(store, fastCache, agent.Parse, locate, cfg.App.BaseURL, log.Component("service"))

	h := handler.NewURLHandler(svc, log.Component("handler"))

	auth := middleware.Auth([]byte(cfg.Auth.JWTSecret), log.Component("auth"))

	var limit middleware.Middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			middleware.RateLimiterConfig{
				Rate:     cfg.RateLimit.Rate,
				Burst:    cfg.RateLimit.Burst,
				Interval: cfg.RateLimit.Interval,
				Cleanup:  cfg.RateLimit.Cleanup,
			},
			log,
		)
		limit = rateLimiter.Middleware()
		log.Info("rate limiter enabled",
			"rate", cfg.RateLimit.Rate,
			"burst", cfg.RateLimit.Burst,
		)
	}

	router := h.SetupRoutes(auth, limit)

	wrappedRouter := middleware.Chain(router,
		middleware.RequestID,
		middleware.Recovery(log),
		middleware.Logging(log),
	)

	// ============================================================
	// CREATE SERVER WITH CONFIG TIMEOUTS
	// ============================================================
	addr := ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      wrappedRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel to track server errors
	serverErr := make(chan error, 1)

	go func() {
		if cfg.IsDevelopment() {
			fmt.Printf("🚀 Server starting on http://localhost%s\n", addr)
			fmt.Println("───────────────────────────────────────")
			fmt.Println("Endpoints:")
			fmt.Println("  POST /api/shorten                  - Create short URL")
			fmt.Println("  GET  /{alias}                      - Redirect to destination")
			fmt.Println("  GET  /api/analytics/{alias}        - Alias analytics")
			fmt.Println("  GET  /api/analytics/topic/{topic}  - Topic analytics")
			fmt.Println("  GET  /api/analytics/overall        - Overall analytics")
			fmt.Println("  GET  /health                       - Health check")
			fmt.Println("───────────────────────────────────────")
			fmt.Println("Press Ctrl+C to shutdown gracefully")
		}
		log.Info("server starting", "addr", "http://localhost"+addr)
		serverErr <- server.ListenAndServe()
	}()

	// ============================================================
	// WAIT FOR SHUTDOWN OR ERROR
	// ============================================================
	select {
	case err := <-serverErr:
		log.Error("server error", "error", err.Error())
		os.Exit(1)

	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "error", err.Error())
			if err := server.Close(); err != nil {
				log.Error("forced shutdown failed", "error", err.Error())
			}
		}

		// Close repository (database connection)
		if err := store.Close(); err != nil {
			log.Error("failed to close alias store", "error", err.Error())
		}

		log.Info("server stopped")
	}
}
