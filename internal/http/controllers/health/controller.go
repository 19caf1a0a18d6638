// Package health exposes the liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/clinicbook/clinicbook/internal/cache"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

// Controller answers the health probes.
type Controller struct {
	repo  core.Repository
	cache cache.Client
}

// New builds the health controller.
func New(repo core.Repository, c cache.Client) *Controller {
	return &Controller{repo: repo, cache: c}
}

// Healthz handles GET /healthz. Always healthy while the process serves.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz. Ready only when both backends answer.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"store": "ok", "cache": "ok"}
	status := http.StatusOK

	if err := c.repo.Ping(ctx); err != nil {
		checks["store"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := c.cache.Ping(ctx); err != nil {
		checks["cache"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	writeStatus(w, status, checks)
}

func writeStatus(w http.ResponseWriter, status int, payload map[string]string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
