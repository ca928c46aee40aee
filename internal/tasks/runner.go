// Package tasks provides the detached background execution context used for
// fire-and-forget work: durable writes and operator notifications that must
// never block or break the user-facing reply path.
package tasks

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/calmaflow/calma-bot/pkg/metrics"
)

// Runner executes named background tasks. Errors and panics are captured
// internally so a failed task can never escape to a top-level handler. A
// submitted task cannot be cancelled once started.
type Runner struct {
	log *slog.Logger
	wg  sync.WaitGroup
}

// NewRunner constructs a Runner that reports through log.
func NewRunner(log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}

	return &Runner{log: log}
}

// Go starts fn on its own goroutine and returns immediately. The task runs
// with a context detached from the caller's, so finishing the triggering
// handler does not cancel in-flight work.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	if fn == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				metrics.RecordBackgroundTask(name, "panic")
				r.log.Error("background task panicked",
					slog.String("task", name),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		fn(context.Background())
		metrics.RecordBackgroundTask(name, "ok")
	}()
}

// Shutdown waits for in-flight tasks to finish, bounded by ctx.
func (r *Runner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.log.Warn("background tasks still running at shutdown deadline")
		return ctx.Err()
	}
}

// Wait blocks until all submitted tasks have finished or the timeout
// elapses. Intended for tests that need to observe background effects.
func (r *Runner) Wait(timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return r.Shutdown(ctx) == nil
}
