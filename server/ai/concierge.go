package ai

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lithammer/shortuuid/v4"

	"github.com/confmate/confmate/server/engine"
	errsvc "github.com/confmate/confmate/server/internal/errors"
	"github.com/confmate/confmate/server/internal/observability"
	"github.com/confmate/confmate/server/retrieval"
	"github.com/confmate/confmate/store"
)

const conversationTitleLimit = 60

// LLM is the chat surface the concierge needs from a provider.
type LLM interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error)
}

// Retriever loads the candidate session pool for a query.
type Retriever interface {
	Retrieve(ctx context.Context, opts *retrieval.Options) ([]engine.Session, error)
}

// Concierge orchestrates one concierge exchange: classify, retrieve, rank,
// assemble, prompt, stream, persist.
type Concierge struct {
	engine    *engine.Engine
	retriever Retriever
	llm       LLM
	store     *store.Store
}

// NewConcierge creates the orchestrator. llm may be nil when AI is disabled;
// chat requests then fail with LLM_UNAVAILABLE while the context pipeline
// stays usable for tests and previews.
func NewConcierge(eng *engine.Engine, retriever Retriever, llm LLM, st *store.Store) *Concierge {
	return &Concierge{
		engine:    eng,
		retriever: retriever,
		llm:       llm,
		store:     st,
	}
}

// AskRequest is one attendee message.
type AskRequest struct {
	UserID          int32
	ConversationUID string
	Message         string
}

// Answer is a complete non-streamed reply.
type Answer struct {
	Reply           string                 `json:"reply"`
	ConversationUID string                 `json:"conversationUid,omitempty"`
	Context         *engine.ContextPayload `json:"context"`
	Cached          bool                   `json:"cached"`
}

// StreamEvent is one server-sent event of a streamed reply. Type is one of
// "context", "chunk", "done" or "error"; every stream ends with exactly one
// terminal done or error event.
type StreamEvent struct {
	Type            string                 `json:"type"`
	Data            string                 `json:"data,omitempty"`
	Context         *engine.ContextPayload `json:"context,omitempty"`
	ConversationUID string                 `json:"conversationUid,omitempty"`
	ErrorCode       string                 `json:"errorCode,omitempty"`
}

// prepared is the classified and assembled state of one request.
type prepared struct {
	payload  *engine.ContextPayload
	messages []Message
	cacheKey string
}

// Prepare runs the non-LLM half of the pipeline: classification, retrieval,
// ranking, conflict detection and context assembly.
func (c *Concierge) Prepare(ctx context.Context, req *AskRequest) (*engine.ContextPayload, error) {
	p, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.payload, nil
}

func (c *Concierge) prepare(ctx context.Context, req *AskRequest) (*prepared, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errsvc.InvalidArgument("message is empty")
	}

	reqCtx, _ := observability.FromContext(ctx)
	logger := slog.Default()
	requestID := ""
	if reqCtx != nil {
		logger = reqCtx.Logger
		requestID = reqCtx.RequestID
	}

	userProfile := c.loadProfile(ctx, req.UserID)
	intent := c.engine.ClassifyIntent(message)
	complexity := c.engine.ClassifyComplexity(message)
	observability.GlobalMetrics().RecordRequest(string(intent.Primary))

	pool, err := c.retriever.Retrieve(ctx, &retrieval.Options{
		Query:     message,
		RequestID: requestID,
		Logger:    logger,
	})
	if err != nil {
		return nil, errsvc.Wrap(err, errsvc.ErrCodeServiceUnavailable, "session retrieval failed")
	}

	ranked := c.engine.RankWithFallback(pool, intent, userProfile, complexity)
	candidateSessions := make([]engine.Session, 0, len(ranked))
	for _, candidate := range ranked {
		candidateSessions = append(candidateSessions, candidate.Session)
	}
	conflicts := engine.DetectConflicts(candidateSessions)

	payload := c.engine.AssembleContext(ranked, conflicts, pool, intent, userProfile, complexity)

	if reqCtx != nil {
		reqCtx.Info("context assembled",
			slog.String(observability.LogFieldIntent, string(intent.Primary)),
			slog.String(observability.LogFieldComplexity, string(complexity)),
			slog.Int(observability.LogFieldCandidates, len(payload.Candidates)),
			slog.Int(observability.LogFieldMessageLen, len(message)),
		)
	}

	return &prepared{
		payload:  payload,
		messages: BuildPrompt(payload, message),
		cacheKey: responseCacheKey(req.UserID, message),
	}, nil
}

// Ask produces a complete reply in one call. Identical recent questions from
// the same user are served from the response cache.
func (c *Concierge) Ask(ctx context.Context, req *AskRequest) (*Answer, error) {
	p, err := c.prepare(ctx, req)
	if err != nil {
		observability.GlobalMetrics().RecordFailure()
		return nil, err
	}

	if cached, ok := c.store.ResponseCache().Get(ctx, p.cacheKey); ok {
		if reply, ok := cached.(string); ok {
			observability.GlobalMetrics().RecordCacheHit()
			return &Answer{Reply: reply, Context: p.payload, Cached: true}, nil
		}
	}

	if c.llm == nil {
		return nil, errsvc.LLMUnavailable("AI is not configured")
	}
	reply, err := c.llm.Chat(ctx, p.messages)
	if err != nil {
		observability.GlobalMetrics().RecordFailure()
		return nil, errsvc.Wrap(err, errsvc.ErrCodeLLMUnavailable, "chat completion failed")
	}

	c.store.ResponseCache().Set(ctx, p.cacheKey, reply)
	conversationUID := c.persistExchange(ctx, req, reply)
	return &Answer{Reply: reply, ConversationUID: conversationUID, Context: p.payload}, nil
}

// Stream produces the reply as a sequence of events. The returned channel is
// closed after the terminal event.
func (c *Concierge) Stream(ctx context.Context, req *AskRequest) (<-chan StreamEvent, error) {
	p, err := c.prepare(ctx, req)
	if err != nil {
		observability.GlobalMetrics().RecordFailure()
		return nil, err
	}

	events := make(chan StreamEvent, 16)

	if cached, ok := c.store.ResponseCache().Get(ctx, p.cacheKey); ok {
		if reply, ok := cached.(string); ok {
			observability.GlobalMetrics().RecordCacheHit()
			go func() {
				defer close(events)
				events <- StreamEvent{Type: "context", Context: p.payload}
				events <- StreamEvent{Type: "chunk", Data: reply}
				events <- StreamEvent{Type: "done"}
			}()
			return events, nil
		}
	}

	if c.llm == nil {
		close(events)
		return nil, errsvc.LLMUnavailable("AI is not configured")
	}
	chunks, err := c.llm.ChatStream(ctx, p.messages)
	if err != nil {
		close(events)
		observability.GlobalMetrics().RecordFailure()
		return nil, errsvc.Wrap(err, errsvc.ErrCodeLLMUnavailable, "chat stream failed")
	}

	go func() {
		defer close(events)
		events <- StreamEvent{Type: "context", Context: p.payload}

		var full strings.Builder
		for chunk := range chunks {
			switch {
			case chunk.Err != nil:
				observability.GlobalMetrics().RecordFailure()
				events <- StreamEvent{
					Type:      "error",
					Data:      chunk.Err.Error(),
					ErrorCode: string(errsvc.GetCodeFromError(chunk.Err, errsvc.ErrCodeLLMUnavailable)),
				}
				return
			case chunk.Done:
				reply := full.String()
				c.store.ResponseCache().Set(ctx, p.cacheKey, reply)
				conversationUID := c.persistExchange(ctx, req, reply)
				events <- StreamEvent{Type: "done", ConversationUID: conversationUID}
				return
			default:
				full.WriteString(chunk.Content)
				observability.GlobalMetrics().RecordStreamChunk()
				events <- StreamEvent{Type: "chunk", Data: chunk.Content}
			}
		}
		// Channel closed without a terminal chunk.
		events <- StreamEvent{
			Type:      "error",
			Data:      "stream ended unexpectedly",
			ErrorCode: string(errsvc.ErrCodeLLMUnavailable),
		}
	}()
	return events, nil
}

// loadProfile fetches the user's profile; guests and lookup failures score as
// anonymous.
func (c *Concierge) loadProfile(ctx context.Context, userID int32) engine.Profile {
	if userID <= 0 {
		return engine.Profile{}
	}
	stored, err := c.store.GetUserProfile(ctx, &store.FindUserProfile{UserID: userID})
	if err != nil || stored == nil {
		return engine.Profile{}
	}
	return engine.Profile{
		Role:       stored.Role,
		Company:    stored.Company,
		Interests:  stored.Interests,
		Goals:      stored.Goals,
		Experience: stored.Experience,
	}
}

// persistExchange records the user message and the reply in the conversation,
// creating it on first use. Persistence failures are logged, never surfaced;
// the attendee already has the answer.
func (c *Concierge) persistExchange(ctx context.Context, req *AskRequest, reply string) string {
	conversationUID := req.ConversationUID
	var conversation *store.Conversation

	if conversationUID != "" {
		found, err := c.store.ListConversations(ctx, &store.FindConversation{UID: &conversationUID})
		if err == nil && len(found) > 0 {
			conversation = found[0]
		}
	}
	if conversation == nil {
		created, err := c.store.CreateConversation(ctx, &store.Conversation{
			UID:    shortuuid.New(),
			UserID: req.UserID,
			Title:  conversationTitle(req.Message),
		})
		if err != nil {
			slog.Warn("failed to create conversation", "error", err)
			return ""
		}
		conversation = created
	}

	for _, msg := range []store.ConversationMessage{
		{ConversationID: conversation.ID, Role: store.MessageRoleUser, Content: req.Message},
		{ConversationID: conversation.ID, Role: store.MessageRoleAssistant, Content: reply},
	} {
		if _, err := c.store.CreateConversationMessage(ctx, &msg); err != nil {
			slog.Warn("failed to persist conversation message", "error", err)
			return conversation.UID
		}
	}
	return conversation.UID
}

func conversationTitle(message string) string {
	title := strings.TrimSpace(message)
	if len(title) > conversationTitleLimit {
		title = title[:conversationTitleLimit]
	}
	return title
}

// responseCacheKey normalizes the message so trivially different phrasings of
// the same question hit the same entry.
func responseCacheKey(userID int32, message string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(message)), " ")
	return "resp:" + strconv.FormatInt(int64(userID), 10) + ":" + normalized
}
