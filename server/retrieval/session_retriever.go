// Package retrieval assembles the candidate session pool for a concierge
// query. It fans out a catalog listing and, when available, a vector search,
// then joins both into one deduplicated pool for the scoring engine.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/confmate/confmate/server/engine"
	"github.com/confmate/confmate/store"
)

const (
	// maxQueryLength bounds the query accepted by Retrieve.
	maxQueryLength = 1000
	// vectorSearchLimit is how many nearest neighbors the vector path pulls.
	vectorSearchLimit = 30
	// speakerFetchConcurrency bounds the parallel speaker lookups.
	speakerFetchConcurrency = 8
)

// Embedder turns a query into a vector for nearest-neighbor search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SessionRetriever loads candidate sessions from the store.
type SessionRetriever struct {
	store    *store.Store
	embedder Embedder
}

// Options controls a single retrieval.
type Options struct {
	Query     string
	RequestID string
	Logger    *slog.Logger
}

// NewSessionRetriever creates a retriever. embedder may be nil, in which case
// only the catalog path runs.
func NewSessionRetriever(st *store.Store, embedder Embedder) *SessionRetriever {
	return &SessionRetriever{
		store:    st,
		embedder: embedder,
	}
}

// Retrieve returns the candidate pool for a query. Vector hits come first in
// the order the index returned them, followed by the rest of the catalog in
// start-time order. The pool may be empty; that is not an error.
func (r *SessionRetriever) Retrieve(ctx context.Context, opts *Options) ([]engine.Session, error) {
	if opts == nil {
		opts = &Options{}
	}
	if len(opts.Query) > maxQueryLength {
		return nil, fmt.Errorf("query too long: %d characters (max %d)", len(opts.Query), maxQueryLength)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	type catalogResult struct {
		sessions []*store.Session
		err      error
	}
	type vectorResult struct {
		sessions []*store.SessionWithScore
		err      error
	}

	catalogCh := make(chan catalogResult, 1)
	vectorCh := make(chan vectorResult, 1)

	go func() {
		normal := store.Normal
		sessions, err := r.store.ListSessions(ctx, &store.FindSession{RowStatus: &normal})
		select {
		case <-ctx.Done():
		case catalogCh <- catalogResult{sessions, err}:
		}
	}()

	go func() {
		if r.embedder == nil || opts.Query == "" {
			vectorCh <- vectorResult{nil, store.ErrVectorSearchUnsupported}
			return
		}
		queryVector, err := r.embedder.Embed(ctx, opts.Query)
		if err != nil {
			select {
			case <-ctx.Done():
			case vectorCh <- vectorResult{nil, fmt.Errorf("failed to embed query: %w", err)}:
			}
			return
		}
		sessions, err := r.store.VectorSearchSessions(ctx, &store.VectorSearchOptions{
			Vector: queryVector,
			Limit:  vectorSearchLimit,
		})
		select {
		case <-ctx.Done():
		case vectorCh <- vectorResult{sessions, err}:
		}
	}()

	var catalogRes catalogResult
	var vectorRes vectorResult
	select {
	case catalogRes = <-catalogCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case vectorRes = <-vectorCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if vectorRes.err != nil {
		if errors.Is(vectorRes.err, store.ErrVectorSearchUnsupported) {
			opts.Logger.DebugContext(ctx, "vector search unavailable, using catalog only",
				"request_id", opts.RequestID,
			)
		} else {
			opts.Logger.WarnContext(ctx, "vector search failed, using catalog only",
				"request_id", opts.RequestID,
				"error", vectorRes.err,
			)
		}
		vectorRes.sessions = nil
	}
	if catalogRes.err != nil {
		if vectorRes.sessions == nil {
			return nil, errors.Wrap(catalogRes.err, "failed to list sessions")
		}
		opts.Logger.WarnContext(ctx, "catalog listing failed, using vector hits only",
			"request_id", opts.RequestID,
			"error", catalogRes.err,
		)
		catalogRes.sessions = nil
	}

	pool := joinPools(vectorRes.sessions, catalogRes.sessions)
	if err := r.attachSpeakers(ctx, pool); err != nil {
		return nil, err
	}

	out := make([]engine.Session, 0, len(pool))
	for _, p := range pool {
		out = append(out, p.converted)
	}
	return out, nil
}

type pooled struct {
	id        int32
	converted engine.Session
}

// joinPools merges vector hits and the catalog listing, vector hits first,
// deduplicated by session ID.
func joinPools(vectorHits []*store.SessionWithScore, catalog []*store.Session) []*pooled {
	seen := map[int32]bool{}
	pool := make([]*pooled, 0, len(vectorHits)+len(catalog))
	for _, hit := range vectorHits {
		if seen[hit.Session.ID] {
			continue
		}
		seen[hit.Session.ID] = true
		pool = append(pool, &pooled{id: hit.Session.ID, converted: ToEngineSession(hit.Session)})
	}
	for _, session := range catalog {
		if seen[session.ID] {
			continue
		}
		seen[session.ID] = true
		pool = append(pool, &pooled{id: session.ID, converted: ToEngineSession(session)})
	}
	return pool
}

// attachSpeakers loads speakers for every pooled session with bounded
// concurrency. The agenda is small, so this runs per request without caching.
func (r *SessionRetriever) attachSpeakers(ctx context.Context, pool []*pooled) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(speakerFetchConcurrency)
	for _, p := range pool {
		p := p
		g.Go(func() error {
			speakers, err := r.store.ListSpeakers(gctx, &store.FindSpeaker{SessionID: &p.id})
			if err != nil {
				return errors.Wrapf(err, "failed to list speakers for session %d", p.id)
			}
			for _, speaker := range speakers {
				p.converted.Speakers = append(p.converted.Speakers, engine.Speaker{
					Name:    speaker.Name,
					Role:    speaker.Role,
					Company: speaker.Company,
					Bio:     speaker.Bio,
				})
			}
			return nil
		})
	}
	return g.Wait()
}

// ToEngineSession converts a stored session to the scoring engine view.
// A zero start timestamp means the session is unscheduled.
func ToEngineSession(s *store.Session) engine.Session {
	session := engine.Session{
		ID:          s.UID,
		Title:       s.Title,
		Description: s.Description,
		Location:    s.Location,
		Track:       s.Track,
		Level:       s.Level,
		Tags:        s.Tags,
	}
	if s.StartTs > 0 {
		start := time.Unix(s.StartTs, 0).UTC()
		session.StartTime = &start
		if s.EndTs != nil {
			end := time.Unix(*s.EndTs, 0).UTC()
			session.EndTime = &end
		}
	}
	return session
}
