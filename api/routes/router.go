package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidepagano/storeops-backend/api/controllers"
	"github.com/davidepagano/storeops-backend/api/middleware"
	"github.com/davidepagano/storeops-backend/internal/revenue"
	"github.com/davidepagano/storeops-backend/pkg/config"
	"github.com/davidepagano/storeops-backend/pkg/entitystore"
	"github.com/davidepagano/storeops-backend/pkg/identity"
	"github.com/davidepagano/storeops-backend/pkg/logger"
	"github.com/davidepagano/storeops-backend/pkg/redis"
)

type aggregationRunner interface {
	Run(ctx context.Context, dateInput *string) (*revenue.Report, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	entity entitystore.Pinger,
	cache redis.Pinger,
	checker identity.Checker,
	runner aggregationRunner,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, entity, cache))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.With(middleware.Auth(checker, logg)).
		Post("/aggregateDailyStoreRevenue", controllers.AggregateDailyStoreRevenue(runner, logg))

	return r
}
