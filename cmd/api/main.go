package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/herblink/herblink-backend/api/routes"
	"github.com/herblink/herblink-backend/internal/herbs"
	"github.com/herblink/herblink-backend/internal/inventory"
	"github.com/herblink/herblink-backend/internal/lifecycle"
	"github.com/herblink/herblink-backend/internal/matching"
	"github.com/herblink/herblink-backend/internal/orders"
	"github.com/herblink/herblink-backend/internal/prescriptions"
	"github.com/herblink/herblink-backend/internal/users"
	"github.com/herblink/herblink-backend/pkg/config"
	"github.com/herblink/herblink-backend/pkg/db"
	"github.com/herblink/herblink-backend/pkg/logger"
	"github.com/herblink/herblink-backend/pkg/metrics"
	"github.com/herblink/herblink-backend/pkg/migrate"
	"github.com/herblink/herblink-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	lifecycleMetrics := metrics.NewLifecycleMetrics(registry)
	matchingMetrics := metrics.NewMatchingMetrics(registry)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	herbsRepo := herbs.NewRepository(gormDB)
	prescriptionsRepo := prescriptions.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	inventoryRepo := inventory.NewRepository(gormDB)

	herbsService, err := herbs.NewService(herbsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create herbs service", err)
		os.Exit(1)
	}

	prescriptionsService, err := prescriptions.NewService(prescriptionsRepo, herbsService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create prescriptions service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo, herbsService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	lifecycleService, err := lifecycle.NewService(ordersRepo, prescriptionsRepo, usersRepo, inventoryRepo, dbClient, lifecycleMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	matchingService, err := matching.NewService(prescriptionsRepo, inventoryRepo, matchingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create matching service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Registry:      registry,
			Herbs:         herbsService,
			Prescriptions: prescriptionsService,
			Inventory:     inventoryService,
			Lifecycle:     lifecycleService,
			Matching:      matchingService,
			Orders:        ordersRepo,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
