package controllers

import (
	"net/http"

	"github.com/davidepagano/storeops-backend/api/responses"
	"github.com/davidepagano/storeops-backend/pkg/config"
	"github.com/davidepagano/storeops-backend/pkg/entitystore"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
	"github.com/davidepagano/storeops-backend/pkg/logger"
	"github.com/davidepagano/storeops-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StoreOps-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the entity store answers. Redis is
// optional at the API; a nil pinger is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, entity entitystore.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StoreOps-Env", cfg.App.Env)

		if entity != nil {
			if err := entity.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "entity store unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
