package workers

import (
	"context"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/logger"
)

type sessionSweepWorker struct {
	sessions SessionSweeper
	interval time.Duration
	logger   *logger.Logger
}

// NewSessionSweepWorker returns a worker that removes expired sessions every
// interval.
func NewSessionSweepWorker(sessions SessionSweeper, interval time.Duration, logger *logger.Logger) Worker {
	return &sessionSweepWorker{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

func (w *sessionSweepWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := w.sessions.Sweep(); removed > 0 {
				w.logger.Debug().Int("removed", removed).Msg("expired sessions swept")
			}
		}
	}
}
