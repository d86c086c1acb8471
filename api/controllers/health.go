package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/jhumka-storefront/api/responses"
	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

const envHeader = "X-Jhumka-Env"

// Pinger is satisfied by anything with a reachability check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the storage backend answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "storage unavailable"))
			return
		}
		if err := store.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage unavailable").
				WithDetails(map[string]any{"storage_backend": cfg.Storage.Backend}))
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"status":          "ready",
			"storage_backend": cfg.Storage.Backend,
		})
	}
}
