package workers

import (
	"context"
	"sync"

	"github.com/lightningsoon/KeyMinder/internal/logger"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

// Run starts every worker in its own goroutine and returns once all of them
// have stopped after ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}

	w.logger.Info().Int("count", len(w.workers)).Msg("workers started")
	wg.Wait()
	w.logger.Info().Msg("workers stopped")
}
