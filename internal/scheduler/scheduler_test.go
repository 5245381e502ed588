package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type countingJob struct {
	calls atomic.Int32
	err   error
}

func (j *countingJob) ReconcileAll(context.Context) error {
	j.calls.Add(1)
	return j.err
}

func (j *countingJob) Touch(context.Context) error {
	j.calls.Add(1)
	return j.err
}

func TestSchedulerRunsJobs(t *testing.T) {
	reconciler := &countingJob{err: errors.New("league broken")}
	toucher := &countingJob{}

	s, err := NewScheduler(20*time.Millisecond, reconciler, toucher, logrus.New())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if reconciler.calls.Load() >= 2 && toucher.calls.Load() >= 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("jobs did not run: reconcile=%d touch=%d", reconciler.calls.Load(), toucher.calls.Load())
}

func TestSchedulerRejectsZeroInterval(t *testing.T) {
	if _, err := NewScheduler(0, &countingJob{}, nil, logrus.New()); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
