// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/stretchr/testify/assert"
)

const (
	testInterval = 5 * time.Millisecond
	waitFor      = time.Second
)

// mockWorker counts Run calls and blocks until its context is done.
type mockWorker struct {
	runCount atomic.Int32
}

func (m *mockWorker) Run(ctx context.Context) {
	m.runCount.Add(1)
	<-ctx.Done()
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &mockWorker{}, &mockWorker{}, &mockWorker{}
	ws := NewWorkers(logger.Nop(), w1, w2, w3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ws.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return w1.runCount.Load() == 1 && w2.runCount.Load() == 1 && w3.runCount.Load() == 1
	}, waitFor, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// returns at once without workers
	NewWorkers(logger.Nop()).Run(ctx)
}

// ─────────────────────────────────────────────
// session sweeper
// ─────────────────────────────────────────────

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func TestSessionSweepWorker_SweepsPeriodically(t *testing.T) {
	sweeper := &countingSweeper{}
	worker := NewSessionSweepWorker(sweeper, testInterval, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, waitFor, time.Millisecond)
}

func TestSessionSweepWorker_StopsOnCancel(t *testing.T) {
	sweeper := &countingSweeper{}
	worker := NewSessionSweepWorker(sweeper, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker.Run(ctx)

	assert.Zero(t, sweeper.calls.Load())
}

// ─────────────────────────────────────────────
// health probe
// ─────────────────────────────────────────────

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Check(ctx context.Context) error { return f(ctx) }

type recordingReporter struct {
	mu     sync.Mutex
	states []bool
}

func (r *recordingReporter) SetServing(serving bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, serving)
}

func (r *recordingReporter) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.states...)
}

func TestHealthProbeWorker_ProbesImmediately(t *testing.T) {
	reporter := &recordingReporter{}
	worker := NewHealthProbeWorker(checkerFunc(func(context.Context) error { return nil }), reporter, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker.Run(ctx)

	assert.Equal(t, []bool{true}, reporter.snapshot())
}

func TestHealthProbeWorker_FollowsStorageHealth(t *testing.T) {
	var healthy atomic.Bool
	checker := checkerFunc(func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("connection refused")
	})
	reporter := &recordingReporter{}
	worker := NewHealthProbeWorker(checker, reporter, testInterval, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	assert.Eventually(t, func() bool {
		states := reporter.snapshot()
		return len(states) > 0 && !states[len(states)-1]
	}, waitFor, time.Millisecond)

	healthy.Store(true)

	assert.Eventually(t, func() bool {
		states := reporter.snapshot()
		return states[len(states)-1]
	}, waitFor, time.Millisecond)
}
