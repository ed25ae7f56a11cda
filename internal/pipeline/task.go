// Package pipeline holds the session-side collaborator the call trackers
// cancel into. The voice pipeline itself (audio routing, frame processing)
// lives in the external framework; this package only owns the lifecycle of
// one running session.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Task represents one running voice pipeline session. Cancelling it stops
// the session context and closes the underlying transport connection.
type Task struct {
	cancel context.CancelFunc
	closer io.Closer

	once      sync.Once
	cancelled atomic.Bool
}

// NewTask wraps a session context cancel function and an optional transport
// closer into a cancellable task.
func NewTask(cancel context.CancelFunc, closer io.Closer) *Task {
	return &Task{cancel: cancel, closer: closer}
}

// Cancel terminates the session. Idempotent: only the first call acts.
func (t *Task) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		slog.Info("Cancelling pipeline session")
		t.cancel()
		if t.closer != nil {
			if err := t.closer.Close(); err != nil {
				slog.Warn("Transport close failed during cancel", "error", err)
			}
		}
	})
}

// Cancelled reports whether the task has been cancelled.
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}
