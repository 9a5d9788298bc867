// Package main is the entry point for the Wayfarer API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tbellamy/wayfarer/backend/internal/catalog"
	"github.com/tbellamy/wayfarer/backend/internal/config"
	"github.com/tbellamy/wayfarer/backend/internal/handler"
	"github.com/tbellamy/wayfarer/backend/internal/middleware"
	"github.com/tbellamy/wayfarer/backend/internal/repo"
	"github.com/tbellamy/wayfarer/backend/internal/service"
	"github.com/tbellamy/wayfarer/backend/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// The configured logger does not exist yet; the slog default is fine.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Catalog ----------------------------------------------------------
	// The destination list is embedded in the binary; a parse failure here
	// means a broken build, not a runtime condition.
	destinations, err := catalog.Load()
	if err != nil {
		slog.Error("failed to load destination catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("destination catalog loaded", "count", len(destinations))

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Redis ------------------------------------------------------------
	rdb, err := service.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("redis connection established")

	// --- Services ---------------------------------------------------------
	users := repo.NewUserRepo(pool)
	bookings := repo.NewBookingRepo(pool)

	sessions := service.NewRedisTokenStore(rdb, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	authService := service.NewAuthService(users, sessions)
	bookingService := service.NewBookingService(bookings, destinations)
	planners := service.NewPlannerRegistry(authService, users, destinations)

	janitor := service.NewJanitor(planners, time.Duration(cfg.PlannerIdleMinutes)*time.Minute, logger)
	if err := janitor.Start(); err != nil {
		slog.Error("failed to start janitor", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → MaxBodySize. RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a
	// proxy). SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	server := handler.NewServer(destinations, authService, bookingService, planners, spec.OpenAPI)
	r.Mount("/", server.Routes(middleware.NewAuthHandler(authService)))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing. The janitor
	// and the planner registry are stopped after the listener so no new
	// sessions appear mid-teardown; Shutdown releases every live session's
	// subscription.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	janitor.Stop()
	planners.Shutdown()
	slog.Info("server stopped")
}
