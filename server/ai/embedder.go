package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/confmate/confmate/store"
)

const (
	// maxEmbedChars bounds the text sent to the embedding model. Session
	// abstracts are short; this only trims pathological imports.
	maxEmbedChars = 2000
	// embedConcurrency bounds parallel embedding calls.
	embedConcurrency = 3
)

// TextEmbedder is the embedding surface the session embedder needs.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SessionEmbedder generates and stores embedding vectors for sessions so the
// vector retrieval path has something to search.
type SessionEmbedder struct {
	embedder TextEmbedder
	store    *store.Store
}

// NewSessionEmbedder creates a new session embedder.
func NewSessionEmbedder(embedder TextEmbedder, store *store.Store) *SessionEmbedder {
	return &SessionEmbedder{
		embedder: embedder,
		store:    store,
	}
}

// EmbedSession generates and stores the embedding for a single session.
func (e *SessionEmbedder) EmbedSession(ctx context.Context, session *store.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	vector, err := e.embedder.Embed(ctx, embeddingText(session))
	if err != nil {
		return fmt.Errorf("failed to embed session %s: %w", session.UID, err)
	}

	if err := e.store.UpsertSessionEmbedding(ctx, &store.SessionEmbedding{
		SessionID: session.ID,
		Embedding: vector,
		UpdatedTs: time.Now().Unix(),
	}); err != nil {
		return fmt.Errorf("failed to store embedding for session %s: %w", session.UID, err)
	}

	slog.Debug("session embedded",
		"session_uid", session.UID,
		"embedding_dim", len(vector))
	return nil
}

// SyncAll embeds the whole catalog with bounded concurrency. On drivers
// without vector support it is a no-op. Individual failures are logged and
// skipped; the first storage failure other than unsupported aborts the run.
func (e *SessionEmbedder) SyncAll(ctx context.Context) error {
	normal := store.Normal
	sessions, err := e.store.ListSessions(ctx, &store.FindSession{RowStatus: &normal})
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	sem := make(chan struct{}, embedConcurrency)
	errCh := make(chan error, len(sessions))
	for _, session := range sessions {
		sem <- struct{}{}
		go func(s *store.Session) {
			defer func() { <-sem }()
			errCh <- e.EmbedSession(ctx, s)
		}(session)
	}
	for i := 0; i < embedConcurrency; i++ {
		sem <- struct{}{}
	}
	close(errCh)

	var failed int
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, store.ErrVectorSearchUnsupported) {
			slog.Debug("embedding sync skipped, driver has no vector support")
			return nil
		}
		failed++
		slog.Warn("session embedding failed", "error", err)
	}
	if failed == len(sessions) {
		return fmt.Errorf("embedding sync failed for all %d sessions", failed)
	}
	return nil
}

// embeddingText composes the text representation of a session for embedding.
func embeddingText(session *store.Session) string {
	parts := []string{session.Title}
	if session.Track != "" {
		parts = append(parts, "Track: "+session.Track)
	}
	if len(session.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(session.Tags, ", "))
	}
	if session.Description != "" {
		parts = append(parts, session.Description)
	}
	text := strings.Join(parts, "\n")
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}
	return text
}
