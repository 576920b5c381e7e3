package health

import (
	"context"
	"sort"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a component other than the store failed.
	Degraded Status = "degraded"
	// Unhealthy indicates the store itself is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	checks map[string]CheckFunc
}

// New creates a Service over the report store.
func New(db DBPinger) *Service {
	return &Service{db: db, checks: make(map[string]CheckFunc)}
}

// With registers an extra named component check. A nil fn is ignored.
func (s *Service) With(name string, fn CheckFunc) *Service {
	if fn != nil {
		s.checks[name] = fn
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checks)+1)
	checks["database"] = result(s.db.Ping(ctx))

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		checks[name] = result(s.checks[name](ctx))
	}

	status := Healthy
	if checks["database"] == CheckError {
		return Report{Status: Unhealthy, Checks: checks}
	}
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
