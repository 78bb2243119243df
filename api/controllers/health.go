package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/herblink/herblink-backend/api/responses"
	"github.com/herblink/herblink-backend/pkg/config"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
	"github.com/herblink/herblink-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HerbLink-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HerbLink-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		failed := false

		if db == nil {
			checks["database"] = "unconfigured"
			failed = true
		} else if err := db.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			failed = true
		}

		if cache == nil {
			checks["redis"] = "unconfigured"
			failed = true
		} else if err := cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			failed = true
		}

		if failed {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies not ready").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
