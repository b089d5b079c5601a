package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any dependency exposing a context-aware Ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, such as (*sql.DB).PingContext.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthChecks lists the dependencies probed by HealthHandler.
// A nil checker is reported as "disabled".
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// HealthHandler godoc
// @Summary Dependency health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:   "ok",
		Database: probe(ctx, healthChecks.Database),
		Redis:    probe(ctx, healthChecks.Redis),
	}
	if resp.Database == "unreachable" || resp.Redis == "unreachable" {
		resp.Status = "degraded"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	respond(w, r, status, resp)
}

func probe(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return "disabled"
	}
	if err := c.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "ok"
}
