package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/store"
)

// fakeDriver is an in-memory store.Driver for retrieval tests. Only the
// methods the retriever touches have real behavior.
type fakeDriver struct {
	sessions   []*store.Session
	speakers   map[int32][]*store.Speaker
	vectorHits []*store.SessionWithScore

	listErr   error
	vectorErr error
}

func (f *fakeDriver) GetDB() any   { return nil }
func (f *fakeDriver) Close() error { return nil }

func (f *fakeDriver) UpsertSession(context.Context, *store.UpsertSession) (*store.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDriver) ListSessions(context.Context, *store.FindSession) ([]*store.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sessions, nil
}

func (f *fakeDriver) UpsertSpeaker(context.Context, *store.Speaker) (*store.Speaker, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDriver) ListSpeakers(_ context.Context, find *store.FindSpeaker) ([]*store.Speaker, error) {
	if find.SessionID == nil {
		return nil, nil
	}
	return f.speakers[*find.SessionID], nil
}

func (f *fakeDriver) UpsertSessionSpeaker(context.Context, *store.SessionSpeaker) error {
	return errors.New("not implemented")
}

func (f *fakeDriver) UpsertUserProfile(context.Context, *store.UpsertUserProfile) (*store.UserProfile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDriver) GetUserProfile(context.Context, *store.FindUserProfile) (*store.UserProfile, error) {
	return nil, nil
}

func (f *fakeDriver) UpsertFavorite(context.Context, *store.Favorite) (*store.Favorite, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDriver) ListFavorites(context.Context, *store.FindFavorite) ([]*store.Favorite, error) {
	return nil, nil
}

func (f *fakeDriver) DeleteFavorite(context.Context, *store.DeleteFavorite) error {
	return nil
}

func (f *fakeDriver) CreateConversation(context.Context, *store.Conversation) (*store.Conversation, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDriver) ListConversations(context.Context, *store.FindConversation) ([]*store.Conversation, error) {
	return nil, nil
}

func (f *fakeDriver) DeleteConversation(context.Context, *store.DeleteConversation) error {
	return nil
}

func (f *fakeDriver) CreateConversationMessage(context.Context, *store.ConversationMessage) (*store.ConversationMessage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDriver) ListConversationMessages(context.Context, *store.FindConversationMessage) ([]*store.ConversationMessage, error) {
	return nil, nil
}

func (f *fakeDriver) UpsertSessionEmbedding(context.Context, *store.SessionEmbedding) error {
	return store.ErrVectorSearchUnsupported
}

func (f *fakeDriver) VectorSearchSessions(context.Context, *store.VectorSearchOptions) ([]*store.SessionWithScore, error) {
	if f.vectorErr != nil {
		return nil, f.vectorErr
	}
	return f.vectorHits, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func newTestStore(driver store.Driver) *store.Store {
	return store.New(driver, &profile.Profile{Mode: "dev", Driver: "sqlite"})
}

func storedSession(id int32, uid, title string, startTs int64) *store.Session {
	endTs := startTs + 3600
	return &store.Session{
		ID:      id,
		UID:     uid,
		Title:   title,
		Tags:    []string{},
		StartTs: startTs,
		EndTs:   &endTs,
	}
}

func TestRetrieve_CatalogOnly(t *testing.T) {
	driver := &fakeDriver{
		sessions: []*store.Session{
			storedSession(1, "s-1", "Claims automation", 1000),
			storedSession(2, "s-2", "Cyber risk outlook", 2000),
		},
		speakers: map[int32][]*store.Speaker{
			1: {{Name: "Dana Reeve", Company: "Acme Insurance"}},
		},
	}
	r := NewSessionRetriever(newTestStore(driver), nil)

	pool, err := r.Retrieve(context.Background(), &Options{Query: "claims"})
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "s-1", pool[0].ID)
	require.Len(t, pool[0].Speakers, 1)
	assert.Equal(t, "Dana Reeve", pool[0].Speakers[0].Name)
	assert.Empty(t, pool[1].Speakers)
}

func TestRetrieve_VectorHitsFirstAndDeduplicated(t *testing.T) {
	shared := storedSession(2, "s-2", "Cyber risk outlook", 2000)
	driver := &fakeDriver{
		sessions: []*store.Session{
			storedSession(1, "s-1", "Claims automation", 1000),
			shared,
		},
		vectorHits: []*store.SessionWithScore{
			{Session: shared, Score: 0.92},
		},
		speakers: map[int32][]*store.Speaker{},
	}
	r := NewSessionRetriever(newTestStore(driver), &fakeEmbedder{})

	pool, err := r.Retrieve(context.Background(), &Options{Query: "cyber"})
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "s-2", pool[0].ID, "vector hit leads the pool")
	assert.Equal(t, "s-1", pool[1].ID)
}

func TestRetrieve_VectorFailureFallsBackToCatalog(t *testing.T) {
	driver := &fakeDriver{
		sessions:  []*store.Session{storedSession(1, "s-1", "Claims automation", 1000)},
		vectorErr: errors.New("index offline"),
		speakers:  map[int32][]*store.Speaker{},
	}
	r := NewSessionRetriever(newTestStore(driver), &fakeEmbedder{})

	pool, err := r.Retrieve(context.Background(), &Options{Query: "claims"})
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "s-1", pool[0].ID)
}

func TestRetrieve_EmbedFailureFallsBackToCatalog(t *testing.T) {
	driver := &fakeDriver{
		sessions: []*store.Session{storedSession(1, "s-1", "Claims automation", 1000)},
		speakers: map[int32][]*store.Speaker{},
	}
	r := NewSessionRetriever(newTestStore(driver), &fakeEmbedder{err: errors.New("quota exhausted")})

	pool, err := r.Retrieve(context.Background(), &Options{Query: "claims"})
	require.NoError(t, err)
	require.Len(t, pool, 1)
}

func TestRetrieve_CatalogFailureUsesVectorHits(t *testing.T) {
	driver := &fakeDriver{
		listErr: errors.New("db down"),
		vectorHits: []*store.SessionWithScore{
			{Session: storedSession(2, "s-2", "Cyber risk outlook", 2000), Score: 0.8},
		},
		speakers: map[int32][]*store.Speaker{},
	}
	r := NewSessionRetriever(newTestStore(driver), &fakeEmbedder{})

	pool, err := r.Retrieve(context.Background(), &Options{Query: "cyber"})
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "s-2", pool[0].ID)
}

func TestRetrieve_BothPathsFailing(t *testing.T) {
	driver := &fakeDriver{listErr: errors.New("db down")}
	r := NewSessionRetriever(newTestStore(driver), nil)

	_, err := r.Retrieve(context.Background(), &Options{Query: "claims"})
	require.Error(t, err)
}

func TestRetrieve_QueryTooLong(t *testing.T) {
	driver := &fakeDriver{}
	r := NewSessionRetriever(newTestStore(driver), nil)

	_, err := r.Retrieve(context.Background(), &Options{Query: strings.Repeat("a", maxQueryLength+1)})
	require.Error(t, err)
}

func TestRetrieve_EmptyCatalogIsNotAnError(t *testing.T) {
	driver := &fakeDriver{speakers: map[int32][]*store.Speaker{}}
	r := NewSessionRetriever(newTestStore(driver), nil)

	pool, err := r.Retrieve(context.Background(), &Options{Query: "anything"})
	require.NoError(t, err)
	assert.Empty(t, pool)
}

func TestToEngineSession_UnscheduledHasNilTimes(t *testing.T) {
	s := &store.Session{ID: 1, UID: "s-1", Title: "TBD talk", Tags: []string{}}
	converted := ToEngineSession(s)
	assert.Nil(t, converted.StartTime)
	assert.Nil(t, converted.EndTime)
	assert.False(t, converted.Scheduled())
}
