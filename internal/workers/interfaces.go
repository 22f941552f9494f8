// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// SessionSweeper drops expired sessions and reports how many were removed.
type SessionSweeper interface {
	Sweep() int
}

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthReporter publishes the result of a health probe.
type HealthReporter interface {
	SetServing(serving bool)
}
