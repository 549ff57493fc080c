package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrVectorSearchUnsupported is returned by drivers without vector support
// (sqlite). Callers fall back to the keyword retrieval path.
var ErrVectorSearchUnsupported = errors.New("vector search is not supported by this driver")

// SessionEmbedding stores the embedding vector for a session, produced by an
// external embedding job.
type SessionEmbedding struct {
	SessionID int32
	Embedding []float32
	UpdatedTs int64
}

// VectorSearchOptions is the query for nearest-neighbor session search.
type VectorSearchOptions struct {
	Vector []float32
	Limit  int
}

// SessionWithScore is a session plus its vector similarity score, the same
// output shape as the keyword retrieval path.
type SessionWithScore struct {
	Session *Session
	Score   float32
}

func (s *Store) UpsertSessionEmbedding(ctx context.Context, upsert *SessionEmbedding) error {
	return s.driver.UpsertSessionEmbedding(ctx, upsert)
}

// VectorSearchSessions returns sessions ranked by embedding similarity.
// Returns ErrVectorSearchUnsupported on drivers without pgvector.
func (s *Store) VectorSearchSessions(ctx context.Context, opts *VectorSearchOptions) ([]*SessionWithScore, error) {
	return s.driver.VectorSearchSessions(ctx, opts)
}
