package sqlite

import (
	"context"

	"github.com/confmate/confmate/store"
)

// Vector storage needs pgvector; the retrieval layer detects
// ErrVectorSearchUnsupported and runs keyword-only.

func (d *DB) UpsertSessionEmbedding(context.Context, *store.SessionEmbedding) error {
	return store.ErrVectorSearchUnsupported
}

func (d *DB) VectorSearchSessions(context.Context, *store.VectorSearchOptions) ([]*store.SessionWithScore, error) {
	return nil, store.ErrVectorSearchUnsupported
}
