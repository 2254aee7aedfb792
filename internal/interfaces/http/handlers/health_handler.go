package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/InsightBoard/pkg/types/common"
	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

// HealthChecker is a component that can report its health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkFunc) Name() string                    { return c.name }
func (c checkFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// CheckFunc adapts fn to a HealthChecker called name.
func CheckFunc(name string, fn func(ctx context.Context) error) HealthChecker {
	return checkFunc{name: name, fn: fn}
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler.  Readiness requires every
// checker to pass.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
		timeout:  5 * time.Second,
	}
}

// LivenessResponse is the response of the liveness endpoint.
type LivenessResponse struct {
	Status  common.HealthStatus `json:"status"`
	Version string              `json:"version"`
	Uptime  string              `json:"uptime"`
}

// Liveness handles GET /healthz.  It never checks dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  common.HealthUp,
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz: 200 when every checker passes, 503
// otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	resp := dto.HealthResponse{Status: common.HealthUp, Components: components}
	for _, c := range components {
		if c.Status != common.HealthUp {
			resp.Status = common.HealthDown
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkAll runs every checker concurrently.  Results keep registration
// order.
func (h *HealthHandler) checkAll(ctx context.Context) []common.ComponentHealth {
	results := make([]common.ComponentHealth, len(h.checkers))
	var g errgroup.Group
	for i, checker := range h.checkers {
		i, checker := i, checker
		g.Go(func() error {
			start := time.Now()
			err := checker.Check(ctx)
			res := common.ComponentHealth{
				Name:    checker.Name(),
				Status:  common.HealthUp,
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				res.Status = common.HealthDown
				res.Message = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

//Personal.AI order the ending
