package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckOff indicates a component that is not configured.
	CheckOff CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db           DBPinger
	cache        CachePinger
	generatorSet bool
}

// New creates a Service. cache can be nil; generatorSet reports whether
// an answer generator is configured at all.
func New(db DBPinger, cache CachePinger, generatorSet bool) *Service {
	return &Service{db: db, cache: cache, generatorSet: generatorSet}
}

// Check runs health checks against all components. A disabled component
// never degrades the overall status.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.generatorSet {
		checks["generator"] = CheckOK
	} else {
		checks["generator"] = CheckOff
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
