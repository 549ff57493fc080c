// Package embedding runs the background session-embedding sync so the
// vector retrieval path stays current as the catalog changes.
package embedding

import (
	"context"
	"log/slog"
	"time"

	"github.com/confmate/confmate/server/ai"
	"github.com/confmate/confmate/store"
)

// defaultInterval paces the periodic re-sync. The catalog only changes when
// the agenda sync process runs, so a slow cadence is enough.
const defaultInterval = 10 * time.Minute

type Runner struct {
	embedder *ai.SessionEmbedder
	interval time.Duration
}

// NewRunner creates a session embedding runner.
func NewRunner(embedder ai.TextEmbedder, st *store.Store) *Runner {
	return &Runner{
		embedder: ai.NewSessionEmbedder(embedder, st),
		interval: defaultInterval,
	}
}

// Run syncs once at startup, then on every tick until the context ends.
func (r *Runner) Run(ctx context.Context) {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce performs a single sync pass.
func (r *Runner) RunOnce(ctx context.Context) {
	if err := r.embedder.SyncAll(ctx); err != nil {
		slog.Warn("embedding sync failed", "error", err)
	}
}
