package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopopti/fulfillment-backend/internal/cron"
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
	logg := logger.New(logger.Options{ServiceName: "pending-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pending-worker",
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

	catalogRepo := resolution.NewRepository(dbClient.DB())
	fulfillmentService := fulfillment.NewService(fulfillment.Deps{
		Repo:        fulfillment.NewRepository(dbClient.DB()),
		Resolution:  resolution.NewEngine(catalogRepo, rules.NewEvaluator(cfg.Fulfillment.RulesFailOpen)),
		Rules:       catalogRepo,
		Connections: suppliers.NewRepository(dbClient.DB()),
		Registry:    suppliers.NewRegistry(cfg.Suppliers, nil),
		Recorder:    events.NewRecorder(events.NewRepository(dbClient.DB()), logg),
		Metrics:     metrics.NewProcessorMetrics(prometheus.DefaultRegisterer),
		Log:         logg,
		Config:      cfg.Fulfillment,
	})

	pendingJob, err := cron.NewPendingOrdersJob(cron.PendingOrdersJobParams{
		Logger:      logg,
		Fulfillment: fulfillmentService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pending orders job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("pending-worker"), cfg.Fulfillment.PendingLockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(pendingJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Fulfillment.PendingPollInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting pending worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "pending worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "pending worker shutting down gracefully")
}
