package gauss

import (
	"context"
	"errors"
	"time"

	healthuc "github.com/Gatanot/GaussProject/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Healthy reports whether every component answered.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	status := HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
	var err error
	if !status.Healthy() {
		err = errUnhealthy
	}
	c.obs.observe("health", start, err)
	return status
}

var errUnhealthy = errors.New("gauss: unhealthy")

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
