package ai

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/server/engine"
	errsvc "github.com/confmate/confmate/server/internal/errors"
	"github.com/confmate/confmate/server/retrieval"
	"github.com/confmate/confmate/store"
)

// conciergeDriver is a minimal in-memory store.Driver for concierge tests.
// Conversations and messages are recorded; everything else returns defaults.
type conciergeDriver struct {
	conversations []*store.Conversation
	messages      []*store.ConversationMessage
	nextID        int32
}

func (d *conciergeDriver) GetDB() any   { return nil }
func (d *conciergeDriver) Close() error { return nil }

func (d *conciergeDriver) UpsertSession(context.Context, *store.UpsertSession) (*store.Session, error) {
	return nil, errors.New("not implemented")
}
func (d *conciergeDriver) ListSessions(context.Context, *store.FindSession) ([]*store.Session, error) {
	return nil, nil
}
func (d *conciergeDriver) UpsertSpeaker(context.Context, *store.Speaker) (*store.Speaker, error) {
	return nil, errors.New("not implemented")
}
func (d *conciergeDriver) ListSpeakers(context.Context, *store.FindSpeaker) ([]*store.Speaker, error) {
	return nil, nil
}
func (d *conciergeDriver) UpsertSessionSpeaker(context.Context, *store.SessionSpeaker) error {
	return nil
}
func (d *conciergeDriver) UpsertUserProfile(context.Context, *store.UpsertUserProfile) (*store.UserProfile, error) {
	return nil, errors.New("not implemented")
}
func (d *conciergeDriver) GetUserProfile(context.Context, *store.FindUserProfile) (*store.UserProfile, error) {
	return nil, nil
}
func (d *conciergeDriver) UpsertFavorite(context.Context, *store.Favorite) (*store.Favorite, error) {
	return nil, errors.New("not implemented")
}
func (d *conciergeDriver) ListFavorites(context.Context, *store.FindFavorite) ([]*store.Favorite, error) {
	return nil, nil
}
func (d *conciergeDriver) DeleteFavorite(context.Context, *store.DeleteFavorite) error {
	return nil
}

func (d *conciergeDriver) CreateConversation(_ context.Context, create *store.Conversation) (*store.Conversation, error) {
	d.nextID++
	conversation := *create
	conversation.ID = d.nextID
	d.conversations = append(d.conversations, &conversation)
	return &conversation, nil
}

func (d *conciergeDriver) ListConversations(_ context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	list := []*store.Conversation{}
	for _, c := range d.conversations {
		if find.UID != nil && c.UID != *find.UID {
			continue
		}
		list = append(list, c)
	}
	return list, nil
}

func (d *conciergeDriver) DeleteConversation(context.Context, *store.DeleteConversation) error {
	return nil
}

func (d *conciergeDriver) CreateConversationMessage(_ context.Context, create *store.ConversationMessage) (*store.ConversationMessage, error) {
	message := *create
	d.messages = append(d.messages, &message)
	return &message, nil
}

func (d *conciergeDriver) ListConversationMessages(context.Context, *store.FindConversationMessage) ([]*store.ConversationMessage, error) {
	return d.messages, nil
}

func (d *conciergeDriver) UpsertSessionEmbedding(context.Context, *store.SessionEmbedding) error {
	return store.ErrVectorSearchUnsupported
}

func (d *conciergeDriver) VectorSearchSessions(context.Context, *store.VectorSearchOptions) ([]*store.SessionWithScore, error) {
	return nil, store.ErrVectorSearchUnsupported
}

// fakeRetriever returns a fixed candidate pool.
type fakeRetriever struct {
	pool []engine.Session
	err  error
}

func (f *fakeRetriever) Retrieve(context.Context, *retrieval.Options) ([]engine.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pool, nil
}

// fakeLLM returns a canned reply and counts invocations.
type fakeLLM struct {
	reply     string
	chatCalls int
	streamErr error
}

func (f *fakeLLM) Chat(context.Context, []Message) (string, error) {
	f.chatCalls++
	return f.reply, nil
}

func (f *fakeLLM) ChatStream(context.Context, []Message) (<-chan StreamChunk, error) {
	chunks := make(chan StreamChunk, 4)
	go func() {
		defer close(chunks)
		if f.streamErr != nil {
			chunks <- StreamChunk{Err: f.streamErr}
			return
		}
		half := len(f.reply) / 2
		chunks <- StreamChunk{Content: f.reply[:half]}
		chunks <- StreamChunk{Content: f.reply[half:]}
		chunks <- StreamChunk{Done: true}
	}()
	return chunks, nil
}

func aiSession(id, title string, hour int) engine.Session {
	start := time.Date(2026, 9, 14, hour, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	// Three synonym hits keep the session above the loose
	// relevance threshold for anonymous profiles.
	return engine.Session{
		ID:          id,
		Title:       title,
		Description: "Machine learning and LLM screening for " + title,
		StartTime:   &start,
		EndTime:     &end,
	}
}

func newTestConcierge(llm LLM, pool []engine.Session) (*Concierge, *conciergeDriver) {
	driver := &conciergeDriver{}
	st := store.New(driver, &profile.Profile{Mode: "dev", Driver: "sqlite"})
	c := NewConcierge(engine.NewEngine(), &fakeRetriever{pool: pool}, llm, st)
	return c, driver
}

func TestAsk(t *testing.T) {
	llm := &fakeLLM{reply: "The AI underwriting talk starts at 09:00."}
	c, driver := newTestConcierge(llm, []engine.Session{
		aiSession("s-1", "AI in underwriting", 9),
	})

	answer, err := c.Ask(context.Background(), &AskRequest{UserID: 7, Message: "what ai sessions are there?"})
	require.NoError(t, err)
	assert.Equal(t, llm.reply, answer.Reply)
	assert.False(t, answer.Cached)
	assert.NotEmpty(t, answer.ConversationUID)
	require.NotNil(t, answer.Context)
	assert.NotEmpty(t, answer.Context.Candidates)

	require.Len(t, driver.conversations, 1)
	require.Len(t, driver.messages, 2)
	assert.Equal(t, store.MessageRoleUser, driver.messages[0].Role)
	assert.Equal(t, store.MessageRoleAssistant, driver.messages[1].Role)
}

func TestAsk_SecondCallServedFromCache(t *testing.T) {
	llm := &fakeLLM{reply: "cached answer"}
	c, _ := newTestConcierge(llm, []engine.Session{aiSession("s-1", "AI in underwriting", 9)})
	ctx := context.Background()

	_, err := c.Ask(ctx, &AskRequest{UserID: 7, Message: "what AI sessions are there?"})
	require.NoError(t, err)

	// same question, different whitespace and case
	answer, err := c.Ask(ctx, &AskRequest{UserID: 7, Message: "  What  AI sessions are THERE?  "})
	require.NoError(t, err)
	assert.True(t, answer.Cached)
	assert.Equal(t, 1, llm.chatCalls, "cache hit must not call the LLM again")
}

func TestAsk_EmptyMessage(t *testing.T) {
	c, _ := newTestConcierge(&fakeLLM{reply: "x"}, nil)

	_, err := c.Ask(context.Background(), &AskRequest{UserID: 7, Message: "   "})
	require.Error(t, err)
	assert.True(t, errsvc.IsCode(err, errsvc.ErrCodeInvalidArgument))
}

func TestAsk_WithoutLLM(t *testing.T) {
	c, _ := newTestConcierge(nil, []engine.Session{aiSession("s-1", "AI in underwriting", 9)})

	_, err := c.Ask(context.Background(), &AskRequest{UserID: 7, Message: "anything on ai?"})
	require.Error(t, err)
	assert.True(t, errsvc.IsCode(err, errsvc.ErrCodeLLMUnavailable))
}

func TestAsk_RetrievalFailure(t *testing.T) {
	driver := &conciergeDriver{}
	st := store.New(driver, &profile.Profile{Mode: "dev", Driver: "sqlite"})
	c := NewConcierge(engine.NewEngine(), &fakeRetriever{err: errors.New("db down")}, &fakeLLM{reply: "x"}, st)

	_, err := c.Ask(context.Background(), &AskRequest{UserID: 7, Message: "anything on ai?"})
	require.Error(t, err)
	assert.True(t, errsvc.IsCode(err, errsvc.ErrCodeServiceUnavailable))
}

func TestStream(t *testing.T) {
	llm := &fakeLLM{reply: "Morning AI sessions: underwriting at 09:00."}
	c, _ := newTestConcierge(llm, []engine.Session{aiSession("s-1", "AI in underwriting", 9)})

	events, err := c.Stream(context.Background(), &AskRequest{UserID: 7, Message: "ai sessions tomorrow morning?"})
	require.NoError(t, err)

	collected := []StreamEvent{}
	for event := range events {
		collected = append(collected, event)
	}
	require.GreaterOrEqual(t, len(collected), 4)
	assert.Equal(t, "context", collected[0].Type)
	require.NotNil(t, collected[0].Context)

	var text string
	for _, event := range collected[1 : len(collected)-1] {
		assert.Equal(t, "chunk", event.Type)
		text += event.Data
	}
	assert.Equal(t, llm.reply, text)

	last := collected[len(collected)-1]
	assert.Equal(t, "done", last.Type)
	assert.NotEmpty(t, last.ConversationUID)
}

func TestStream_ErrorChunkIsTerminal(t *testing.T) {
	llm := &fakeLLM{reply: "unused", streamErr: errors.New("upstream reset")}
	c, _ := newTestConcierge(llm, []engine.Session{aiSession("s-1", "AI in underwriting", 9)})

	events, err := c.Stream(context.Background(), &AskRequest{UserID: 7, Message: "ai sessions?"})
	require.NoError(t, err)

	collected := []StreamEvent{}
	for event := range events {
		collected = append(collected, event)
	}
	last := collected[len(collected)-1]
	assert.Equal(t, "error", last.Type)
	assert.Equal(t, string(errsvc.ErrCodeLLMUnavailable), last.ErrorCode)
}

func TestPrepare_EmptyCatalog(t *testing.T) {
	c, _ := newTestConcierge(&fakeLLM{reply: "x"}, nil)

	payload, err := c.Prepare(context.Background(), &AskRequest{UserID: 7, Message: "what's on?"})
	require.NoError(t, err)
	assert.True(t, payload.NoSessionData)
	assert.Empty(t, payload.Candidates)
}

func TestConversationContinuation(t *testing.T) {
	llm := &fakeLLM{reply: "answer"}
	c, driver := newTestConcierge(llm, []engine.Session{aiSession("s-1", "AI in underwriting", 9)})
	ctx := context.Background()

	first, err := c.Ask(ctx, &AskRequest{UserID: 7, Message: "what ai sessions are there?"})
	require.NoError(t, err)

	_, err = c.Ask(ctx, &AskRequest{
		UserID:          7,
		ConversationUID: first.ConversationUID,
		Message:         "and which of those are advanced?",
	})
	require.NoError(t, err)
	assert.Len(t, driver.conversations, 1, "follow-up reuses the conversation")
	assert.Len(t, driver.messages, 4)
}
