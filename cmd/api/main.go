package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidepagano/storeops-backend/api/routes"
	"github.com/davidepagano/storeops-backend/internal/directory"
	"github.com/davidepagano/storeops-backend/internal/orderitems"
	"github.com/davidepagano/storeops-backend/internal/revenue"
	"github.com/davidepagano/storeops-backend/pkg/config"
	"github.com/davidepagano/storeops-backend/pkg/entitystore"
	"github.com/davidepagano/storeops-backend/pkg/identity"
	"github.com/davidepagano/storeops-backend/pkg/logger"
	"github.com/davidepagano/storeops-backend/pkg/metrics"
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

	entityClient, err := entitystore.NewClient(cfg.EntityStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create entity store client", err)
		os.Exit(1)
	}

	identityClient, err := identity.NewClient(cfg.Identity)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity client", err)
		os.Exit(1)
	}

	job, err := buildRevenueJob(cfg, logg, entityClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build revenue job", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, entityClient, nil, identityClient, job),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildRevenueJob(cfg *config.Config, logg *logger.Logger, entityClient *entitystore.Client) (*revenue.Job, error) {
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
		Metrics:      metrics.NewRevenueJobMetrics(prometheus.DefaultRegisterer),
	})
}
