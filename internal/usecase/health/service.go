package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
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

// Component names in a Report.
const (
	ComponentDatabase = "database"
	ComponentBuckets  = "buckets"
)

const defaultTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      Pinger
	buckets Pinger
	timeout time.Duration
}

// New creates a Service. buckets is nil when bucket tables come from the
// config file rather than a key-value store.
func New(db, buckets Pinger) *Service {
	return &Service{db: db, buckets: buckets, timeout: defaultTimeout}
}

// Check pings every component concurrently, each bounded by its own timeout.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult)
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = CheckError
			return
		}
		checks[name] = CheckOK
	}

	var g errgroup.Group
	ping := func(name string, p Pinger) {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			record(name, p.Ping(pctx))
			return nil
		})
	}
	ping(ComponentDatabase, s.db)
	if s.buckets != nil {
		ping(ComponentBuckets, s.buckets)
	}
	_ = g.Wait()

	status := Healthy
	switch {
	case checks[ComponentDatabase] == CheckError:
		status = Unhealthy
	case checks[ComponentBuckets] == CheckError:
		// Bucket tables are loaded at startup; serving continues on the copy.
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
