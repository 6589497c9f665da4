package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/roamswap/roamswap/internal/api/http"
	appNotification "github.com/roamswap/roamswap/internal/application/notification"
	appSwap "github.com/roamswap/roamswap/internal/application/swap"
	"github.com/roamswap/roamswap/internal/config"
	"github.com/roamswap/roamswap/internal/infrastructure/postgres"
	"github.com/roamswap/roamswap/internal/infrastructure/sse"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	swapRepo := postgres.NewSwapRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	// services
	hub := sse.NewHub()
	defer hub.Stop()
	notificationSvc := appNotification.NewService(notificationRepo, hub, logger)
	swapSvc := appSwap.NewService(swapRepo, listingRepo, userRepo, notificationSvc, logger)

	// API server
	verifier := httpapi.NewTokenVerifier(cfg.JWTSecret)
	apiServer := httpapi.NewServer(swapSvc, notificationSvc, userRepo, verifier, hub, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
