// Package health reports liveness and readiness for the assistant backend.
// Liveness is unconditional; readiness runs every registered dependency
// check concurrently and degrades when any of them fails.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vaani-ai/vaani/internal/adapter/queue"
	"github.com/vaani-ai/vaani/internal/ports"
)

type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDisabled Status = "disabled"

	checkTimeout = 5 * time.Second
)

// Checker probes one dependency. It must respect the context deadline.
type Checker func(ctx context.Context) error

type CheckResult struct {
	Status  Status `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type LiveResponse struct {
	Status  Status `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type ReadyResponse struct {
	Status  Status                 `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Checks  map[string]CheckResult `json:"checks"`
}

// Service evaluates the registered checkers. Checkers are fixed at
// construction time, so no locking is needed around the map.
type Service struct {
	name     string
	version  string
	checkers map[string]Checker
	log      *zap.Logger
}

func NewService(name, version string, log *zap.Logger) *Service {
	return &Service{
		name:     name,
		version:  version,
		checkers: make(map[string]Checker),
		log:      log,
	}
}

// Register adds a named dependency check. A nil checker marks the
// dependency as intentionally disabled rather than failing readiness.
func (s *Service) Register(name string, c Checker) {
	s.checkers[name] = c
}

func (s *Service) Live() LiveResponse {
	return LiveResponse{Status: StatusUp, Service: s.name, Version: s.version}
}

// Ready runs all checks concurrently and aggregates the results. The
// overall status is down if any enabled check fails.
func (s *Service) Ready(ctx context.Context) ReadyResponse {
	resp := ReadyResponse{
		Status:  StatusUp,
		Service: s.name,
		Version: s.version,
		Checks:  make(map[string]CheckResult, len(s.checkers)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range s.checkers {
		if check == nil {
			resp.Checks[name] = CheckResult{Status: StatusDisabled}
			continue
		}
		wg.Add(1)
		go func(name string, check Checker) {
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			start := time.Now()
			err := check(cctx)
			result := CheckResult{Status: StatusUp, Latency: time.Since(start).String()}
			if err != nil {
				result.Status = StatusDown
				result.Error = err.Error()
				s.log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			}

			mu.Lock()
			resp.Checks[name] = result
			if result.Status == StatusDown {
				resp.Status = StatusDown
			}
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	return resp
}

// DatabaseChecker pings the underlying SQL connection pool.
func DatabaseChecker(db *gorm.DB) Checker {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// CacheChecker pings the cache. The local in-process cache always
// succeeds, which is the desired behavior when Redis is not configured.
func CacheChecker(c ports.Cache) Checker {
	return func(ctx context.Context) error {
		return c.Ping()
	}
}

// QueueChecker verifies the broker is still reachable with a probe
// publish to a throwaway subject.
func QueueChecker(mq queue.MessageQueue) Checker {
	return func(ctx context.Context) error {
		return mq.Publish("assistant.health", []byte(`{"probe":true}`))
	}
}
