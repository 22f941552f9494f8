package workers

import (
	"context"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/logger"
)

type healthProbeWorker struct {
	checker  HealthChecker
	reporter HealthReporter
	interval time.Duration
	logger   *logger.Logger
}

// NewHealthProbeWorker returns a worker that checks storage health right
// away and then every interval, publishing each result to reporter.
func NewHealthProbeWorker(checker HealthChecker, reporter HealthReporter, interval time.Duration, logger *logger.Logger) Worker {
	return &healthProbeWorker{
		checker:  checker,
		reporter: reporter,
		interval: interval,
		logger:   logger,
	}
}

func (w *healthProbeWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.probe(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *healthProbeWorker) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	err := w.checker.Check(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("health probe failed")
	}
	w.reporter.SetServing(err == nil)
}
