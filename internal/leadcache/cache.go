// Package leadcache keeps the last-known flow answers per user so that
// replies and operator summaries never have to wait on the durable store.
package leadcache

import (
	"context"

	"github.com/calmaflow/calma-bot/internal/domain"
)

// Entry is the in-process shadow of a lead's mutable fields.
type Entry struct {
	Status    *domain.Status    `json:"status,omitempty"`
	Frequency *domain.Frequency `json:"frequency,omitempty"`
}

// Patch carries a partial entry update. Nil fields keep their previous
// value.
type Patch struct {
	Status    *domain.Status
	Frequency *domain.Frequency
}

// Cache is the session cache contract. Put merges shallowly into any
// existing entry, creating one when absent; Get reports explicit absence.
type Cache interface {
	Get(ctx context.Context, userID int64) (Entry, bool)
	Put(ctx context.Context, userID int64, patch Patch)
}

func merge(entry Entry, patch Patch) Entry {
	if patch.Status != nil {
		entry.Status = patch.Status
	}
	if patch.Frequency != nil {
		entry.Frequency = patch.Frequency
	}
	return entry
}
