// Package scheduler runs the periodic maintenance jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Reconciler recomputes derived league state.
type Reconciler interface {
	ReconcileAll(ctx context.Context) error
}

// Toucher refreshes liveness markers of active sessions.
type Toucher interface {
	Touch(ctx context.Context) error
}

type Scheduler struct {
	s          gocron.Scheduler
	interval   time.Duration
	reconciler Reconciler
	toucher    Toucher
	log        logrus.FieldLogger
}

// NewScheduler builds a scheduler running the reconcile job (and the optional
// liveness job when toucher is not nil) every interval.
func NewScheduler(interval time.Duration, reconciler Reconciler, toucher Toucher, log logrus.FieldLogger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %v", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		s:          s,
		interval:   interval,
		reconciler: reconciler,
		toucher:    toucher,
		log:        log,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.reconcile),
		gocron.WithName("reconcile-leagues"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create reconcile job: %w", err)
	}

	if s.toucher != nil {
		_, err = s.s.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(s.touch),
			gocron.WithName("touch-sessions"),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to create session job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	start := time.Now()
	if err := s.reconciler.ReconcileAll(ctx); err != nil {
		s.log.WithField("error", err).Warn("reconcile run failed")
		return
	}
	s.log.WithField("took", time.Since(start)).Debug("reconcile run finished")
}

func (s *Scheduler) touch() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	if err := s.toucher.Touch(ctx); err != nil {
		s.log.WithField("error", err).Warn("session liveness refresh failed")
	}
}
