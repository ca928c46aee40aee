// Package leadstore wraps the lead repository with the best-effort policy
// the flow relies on: every call is raced against a timeout, every failure
// is logged and swallowed at this boundary. The user-facing reply path must
// never stall or break because the durable store is slow or down.
package leadstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/repository"
	"github.com/calmaflow/calma-bot/pkg/metrics"
)

// DefaultTimeout bounds the perceived latency of any single store call.
const DefaultTimeout = 4 * time.Second

// Adapter is the timeout-guarded, failure-swallowing facade over the lead
// repository. A nil Adapter (store not configured) is a valid no-op.
type Adapter struct {
	repo    repository.LeadRepository
	log     *slog.Logger
	timeout time.Duration
}

// New constructs an Adapter. A zero timeout falls back to DefaultTimeout.
func New(repo repository.LeadRepository, log *slog.Logger, timeout time.Duration) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Adapter{
		repo:    repo,
		log:     log,
		timeout: timeout,
	}
}

// Enabled reports whether a durable store is actually behind the adapter.
func (a *Adapter) Enabled() bool {
	return a != nil && a.repo != nil
}

// Upsert merges patch into the stored lead. It never returns an error:
// timeouts and backend failures are logged and the write is lost. The
// timeout only stops the wait, it does not abort the underlying call.
func (a *Adapter) Upsert(ctx context.Context, userID int64, patch domain.LeadPatch) {
	if !a.Enabled() {
		return
	}

	err := a.await(ctx, func(callCtx context.Context) error {
		return a.repo.Upsert(callCtx, userID, patch)
	})
	if err != nil {
		metrics.RecordStoreOp("upsert", "error")
		a.log.Warn("lead upsert dropped",
			slog.Int64("user_id", userID),
			slog.String("last_step", patch.LastStep),
			slog.Any("error", err),
		)
		return
	}

	metrics.RecordStoreOp("upsert", "ok")
}

// Get fetches the stored lead for userID. Absence, timeout, and backend
// failure all collapse into (nil, false); callers fall back to the cache.
func (a *Adapter) Get(ctx context.Context, userID int64) (*domain.Lead, bool) {
	if !a.Enabled() {
		return nil, false
	}

	var lead *domain.Lead
	err := a.await(ctx, func(callCtx context.Context) error {
		var findErr error
		lead, findErr = a.repo.FindByID(callCtx, userID)
		return findErr
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			metrics.RecordStoreOp("get", "error")
			a.log.Warn("lead lookup failed", slog.Int64("user_id", userID), slog.Any("error", err))
		} else {
			metrics.RecordStoreOp("get", "miss")
		}
		return nil, false
	}

	metrics.RecordStoreOp("get", "ok")
	return lead, lead != nil
}

// await races fn against the adapter timeout. When the timeout arm wins the
// in-flight call keeps running on its own goroutine and its eventual result
// is discarded.
func (a *Adapter) await(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)

	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- fn(callCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-callCtx.Done():
		return callCtx.Err()
	}
}
