package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/llanero/admin-backend/pkg/logger"
	"github.com/llanero/admin-backend/pkg/metrics"
)

const defaultInterval = 24 * time.Hour

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service runs the housekeeping jobs every Interval. A replica that loses
// the lock skips the cycle.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
	now      func() time.Time
}

// JobResult is the outcome of one job in a cycle.
type JobResult struct {
	Job      string
	Rows     int64
	Duration time.Duration
	Err      error
}

// Cycle summarizes one pass over the registry.
type Cycle struct {
	Started time.Time
	Skipped bool
	Results []JobResult
}

// Rows adds up the rows every job changed.
func (c Cycle) Rows() int64 {
	var total int64
	for _, r := range c.Results {
		total += r.Rows
	}
	return total
}

// Err combines the job failures, each prefixed with its job name.
func (c Cycle) Err() error {
	var errs error
	for _, r := range c.Results {
		if r.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", r.Job, r.Err))
		}
	}
	return errs
}

func (c Cycle) failed() int {
	n := 0
	for _, r := range c.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Lock == nil {
		return nil, errors.New("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = &Registry{}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		now:      time.Now,
	}, nil
}

// Run runs a cycle right away and then once per interval until ctx ends.
// Failed cycles are logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logg.Error(ctx, "cron cycle failed", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce runs every registered job under the lock. Jobs not reached before
// ctx ends are left out of the cycle.
func (s *Service) RunOnce(ctx context.Context) (Cycle, error) {
	cycle := Cycle{Started: s.now()}
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return cycle, fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		cycle.Skipped = true
		s.logg.Info(ctx, "cron lock held elsewhere, skipping cycle")
		return cycle, nil
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Error(ctx, "release cron lock", err)
		}
	}()

	for _, job := range s.registry.Jobs() {
		if ctx.Err() != nil {
			break
		}
		cycle.Results = append(cycle.Results, s.runJob(ctx, job))
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"event":       "cron.cycle",
		"jobs":        len(cycle.Results),
		"failed":      cycle.failed(),
		"rows":        cycle.Rows(),
		"duration_ms": s.now().Sub(cycle.Started).Milliseconds(),
	}), "cron cycle finished")
	return cycle, cycle.Err()
}

func (s *Service) runJob(ctx context.Context, job Job) JobResult {
	jobCtx := s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	start := s.now()
	rows, err := job.Run(jobCtx)
	result := JobResult{Job: job.Name(), Rows: rows, Duration: s.now().Sub(start), Err: err}

	jobCtx = s.logg.WithFields(jobCtx, map[string]any{"duration_ms": result.Duration.Milliseconds(), "rows_affected": rows})
	if err != nil {
		s.logg.Error(jobCtx, "cron job failed", err)
		s.metrics.Failed(job.Name(), result.Duration)
		return result
	}
	s.logg.Info(jobCtx, "cron job done")
	s.metrics.Succeeded(job.Name(), result.Duration, rows, s.now())
	return result
}
