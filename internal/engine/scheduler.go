package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/varcodes/trackmyprices/internal/metrics"
)

// CycleRunner runs one refresh cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*CycleResult, error)
}

// Scheduler runs refresh cycles on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	runner  CycleRunner
	log     *slog.Logger
	entryID cron.EntryID
}

// NewScheduler creates a Scheduler that calls runner.RunCycle every interval.
func NewScheduler(runner CycleRunner, interval time.Duration, log *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("cycle interval must be positive")
	}

	c := cron.New()
	s := &Scheduler{
		cron:   c,
		runner: runner,
		log:    log,
	}

	id, err := c.AddFunc("@every "+interval.String(), s.runCycle)
	if err != nil {
		return nil, err
	}
	s.entryID = id

	return s, nil
}

// Start begins running scheduled cycles.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextRunTimestamp()
}

// Stop gracefully stops the scheduler, waiting for a running cycle to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamp exports the next scheduled run time.
func (s *Scheduler) SyncNextRunTimestamp() {
	next := s.cron.Entry(s.entryID).Next
	if next.IsZero() {
		return
	}
	metrics.SchedulerNextCycleTimestamp.Set(float64(next.Unix()))
}

func (s *Scheduler) runCycle() {
	defer s.SyncNextRunTimestamp()

	s.log.Info("scheduled refresh cycle starting")
	result, err := s.runner.RunCycle(context.Background())
	switch {
	case errors.Is(err, ErrCycleInProgress):
		s.log.Info("scheduled refresh cycle skipped: another cycle is running")
	case err != nil:
		s.log.Error("scheduled refresh cycle failed", "error", err)
	default:
		s.log.Info("scheduled refresh cycle finished",
			"status", result.Status,
			"updated", len(result.Updated),
			"failures", len(result.Failures),
		)
	}
}
