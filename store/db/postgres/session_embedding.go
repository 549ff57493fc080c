package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/confmate/confmate/store"
)

func (d *DB) UpsertSessionEmbedding(ctx context.Context, upsert *store.SessionEmbedding) error {
	stmt := `
		INSERT INTO session_embedding (session_id, embedding, updated_ts)
		VALUES (` + placeholders(3) + `)
		ON CONFLICT (session_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts`
	vector := pgvector.NewVector(upsert.Embedding)
	if _, err := d.db.ExecContext(ctx, stmt, upsert.SessionID, vector, upsert.UpdatedTs); err != nil {
		return errors.Wrap(err, "failed to upsert session embedding")
	}
	return nil
}

// VectorSearchSessions ranks sessions by cosine similarity. The <=> operator
// is cosine distance, so similarity is 1 - distance.
func (d *DB) VectorSearchSessions(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.SessionWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			session.id, session.uid, session.row_status, session.created_ts, session.updated_ts,
			session.title, session.description, session.location, session.track, session.level,
			session.tags, session.start_ts, session.end_ts, session.source_url,
			1 - (session_embedding.embedding <=> $1) AS score
		FROM session_embedding
		JOIN session ON session.id = session_embedding.session_id
		WHERE session.row_status = 'NORMAL'
		ORDER BY session_embedding.embedding <=> $1
		LIMIT $2`

	rows, err := d.db.QueryContext(ctx, query, pgvector.NewVector(opts.Vector), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search sessions")
	}
	defer rows.Close()

	list := []*store.SessionWithScore{}
	for rows.Next() {
		session := &store.Session{}
		var tags string
		var endTs *int64
		var score float32
		if err := rows.Scan(
			&session.ID,
			&session.UID,
			&session.RowStatus,
			&session.CreatedTs,
			&session.UpdatedTs,
			&session.Title,
			&session.Description,
			&session.Location,
			&session.Track,
			&session.Level,
			&tags,
			&session.StartTs,
			&endTs,
			&session.SourceURL,
			&score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan session with score")
		}
		session.Tags = splitTags(tags)
		session.EndTs = endTs
		list = append(list, &store.SessionWithScore{Session: session, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
