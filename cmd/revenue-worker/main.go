package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidepagano/storeops-backend/internal/cron"
	"github.com/davidepagano/storeops-backend/internal/directory"
	"github.com/davidepagano/storeops-backend/internal/orderitems"
	"github.com/davidepagano/storeops-backend/internal/revenue"
	"github.com/davidepagano/storeops-backend/pkg/config"
	"github.com/davidepagano/storeops-backend/pkg/entitystore"
	"github.com/davidepagano/storeops-backend/pkg/logger"
	"github.com/davidepagano/storeops-backend/pkg/metrics"
	"github.com/davidepagano/storeops-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "revenue-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "revenue-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	entityClient, err := entitystore.NewClient(cfg.EntityStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create entity store client", err)
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

	jobMetrics := metrics.NewRevenueJobMetrics(prometheus.DefaultRegisterer)

	job, err := buildRevenueJob(cfg, logg, entityClient, jobMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build revenue job", err)
		os.Exit(1)
	}

	scheduled, err := cron.NewRevenueJob(cron.RevenueJobParams{Logger: logg, Runner: job})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduled job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redis.LockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(scheduled),
		Lock:     lock,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting revenue worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "revenue worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "revenue worker shutting down gracefully")
}

func buildRevenueJob(cfg *config.Config, logg *logger.Logger, entityClient *entitystore.Client, jobMetrics *metrics.RevenueJobMetrics) (*revenue.Job, error) {
	loader, err := directory.NewLoader(entityClient, logg)
	if err != nil {
		return nil, err
	}
	fetcher, err := orderitems.NewFetcher(entityClient, logg)
	if err != nil {
		return nil, err
	}
	upserter, err := revenue.NewUpserter(entityClient, logg)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Revenue.Location()
	if err != nil {
		return nil, err
	}
	return revenue.NewJob(revenue.JobParams{
		Stores:       loader,
		Items:        fetcher,
		Upserter:     upserter,
		ChannelTable: cfg.Revenue.ChannelStores,
		Location:     loc,
		FetchLimit:   cfg.Revenue.FetchLimit,
		Logger:       logg,
		Metrics:      jobMetrics,
	})
}
