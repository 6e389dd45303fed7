package controllers

import (
	"context"
	"net/http"

	"github.com/lanort/pedidos/api/responses"
	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/pkg/config"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
)

const envHeader = "X-Lanort-Env"

// ReadinessChecker reports storage health and reference-data load flags.
type ReadinessChecker interface {
	Ready(ctx context.Context) (catalog.LoadState, error)
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

type readyResponse struct {
	Status string            `json:"status"`
	Loaded catalog.LoadState `json:"loaded"`
}

// HealthReady fails only when storage is unreachable. Missing reference data is
// reported as "degraded" because loads can be retried at runtime.
func HealthReady(cfg *config.Config, checker ReadinessChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if checker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "readiness checker unavailable"))
			return
		}

		state, err := checker.Ready(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := "ready"
		if !state.Ready() {
			status = "degraded"
		}
		responses.WriteSuccess(w, readyResponse{Status: status, Loaded: state})
	}
}
