// Package main is the entry point for the GlobeTrotter API server.
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

	"github.com/joho/godotenv"

	"github.com/pkordes/globetrotter/backend/api"
	"github.com/pkordes/globetrotter/backend/internal/catalog"
	"github.com/pkordes/globetrotter/backend/internal/config"
	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/handler"
	"github.com/pkordes/globetrotter/backend/internal/repo"
	"github.com/pkordes/globetrotter/backend/internal/service"
	"github.com/pkordes/globetrotter/backend/internal/store"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	ctx := context.Background()
	kv, err := store.Open(ctx, store.Options{
		Driver:        cfg.StoreDriver,
		DataDir:       cfg.DataDir,
		DatabaseURL:   cfg.DatabaseURL,
		SQLitePath:    cfg.SQLitePath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisKeyPrefix,
	})
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("store close", "error", err)
		}
	}()
	slog.Info("store opened", "driver", cfg.StoreDriver)

	cat := catalog.MustLoad()

	var seed []domain.Trip
	if cfg.SeedSamples {
		seed = cat.SampleTrips()
	}
	trips, err := repo.NewTripRepo(ctx, kv, seed)
	if err != nil {
		slog.Error("failed to load trips", "error", err)
		os.Exit(1)
	}
	creds, err := repo.NewCredentialRepo(ctx, kv)
	if err != nil {
		slog.Error("failed to load accounts", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	tripSvc := service.NewTripService(service.TripServiceDeps{
		Trips:       trips,
		Cities:      cat,
		ShareOrigin: cfg.ShareOrigin,
		Logger:      logger,
	})
	identitySvc := service.NewIdentityService(service.IdentityServiceDeps{
		Credentials: creds,
		Sessions:    repo.NewSessionRepo(kv),
		Trips:       trips,
		DemoLogin:   cfg.DemoLogin,
		BcryptCost:  cfg.BcryptCost,
		Logger:      logger,
	})

	// --- Router -----------------------------------------------------------
	srv := handler.NewServer(tripSvc, identitySvc, cat, api.OpenAPI, logger)
	router := srv.Routes(handler.RouterOptions{
		CORSOrigins:       cfg.CORSOrigins,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
		AuthRateBurst:     cfg.AuthRateBurst,
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	// Seeded trips live only in memory until the first write; persist them now.
	if err := trips.Flush(shutdownCtx); err != nil {
		slog.Error("flush trips", "error", err)
	}
	slog.Info("server stopped")
}
