package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopopti/fulfillment-backend/api/routes"
	"github.com/shopopti/fulfillment-backend/internal/events"
	"github.com/shopopti/fulfillment-backend/internal/fulfillment"
	"github.com/shopopti/fulfillment-backend/internal/resolution"
	"github.com/shopopti/fulfillment-backend/internal/rules"
	"github.com/shopopti/fulfillment-backend/internal/suppliers"
	"github.com/shopopti/fulfillment-backend/pkg/config"
	"github.com/shopopti/fulfillment-backend/pkg/db"
	"github.com/shopopti/fulfillment-backend/pkg/logger"
	"github.com/shopopti/fulfillment-backend/pkg/metrics"
	"github.com/shopopti/fulfillment-backend/pkg/migrate"
	"github.com/shopopti/fulfillment-backend/pkg/redis"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()

	catalogRepo := resolution.NewRepository(dbClient.DB())
	fulfillmentService := fulfillment.NewService(fulfillment.Deps{
		Repo:        fulfillment.NewRepository(dbClient.DB()),
		Resolution:  resolution.NewEngine(catalogRepo, rules.NewEvaluator(cfg.Fulfillment.RulesFailOpen)),
		Rules:       catalogRepo,
		Connections: suppliers.NewRepository(dbClient.DB()),
		Registry:    suppliers.NewRegistry(cfg.Suppliers, nil),
		Recorder:    events.NewRecorder(events.NewRepository(dbClient.DB()), logg),
		Metrics:     metrics.NewProcessorMetrics(promRegistry),
		Log:         logg,
		Config:      cfg.Fulfillment,
	})

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			fulfillmentService,
			promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
