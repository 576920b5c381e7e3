package hitreport

import (
	"context"

	healthuc "github.com/kailas-cloud/hitreport/internal/usecase/health"
)

// HealthStatus is the aggregated state of Redis and the sequence source.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Health checks every component.
func (c *Client) Health(ctx context.Context) HealthStatus {
	rep := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(rep.Checks))
	for name, res := range rep.Checks {
		checks[name] = string(res)
	}
	return HealthStatus{Status: string(rep.Status), Checks: checks}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
