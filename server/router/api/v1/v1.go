// Package v1 exposes the REST API: concierge chat, the session catalog,
// personal agendas, attendee profiles, conversation history and runtime
// metrics.
package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/server/ai"
	"github.com/confmate/confmate/server/engine"
	"github.com/confmate/confmate/server/middleware"
	"github.com/confmate/confmate/server/retrieval"
	"github.com/confmate/confmate/server/service/agenda"
	"github.com/confmate/confmate/store"
)

// chatConcurrency bounds in-flight LLM requests to protect the upstream
// provider and keep memory predictable under load.
const chatConcurrency = 3

type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	Concierge     *ai.Concierge
	AgendaService agenda.Service

	rateLimiter   *middleware.RateLimiter
	chatSemaphore *semaphore.Weighted
}

func NewAPIV1Service(secret string, prof *profile.Profile, st *store.Store) *APIV1Service {
	service := &APIV1Service{
		Secret:        secret,
		Profile:       prof,
		Store:         st,
		AgendaService: agenda.NewService(st),
		rateLimiter:   middleware.NewRateLimiter(5, 10),
		chatSemaphore: semaphore.NewWeighted(chatConcurrency),
	}

	var llm ai.LLM
	var embedder retrieval.Embedder
	if prof.IsAIEnabled() {
		provider, err := ai.NewProvider(ai.ConfigFromProfile(prof))
		if err != nil {
			slog.Warn("failed to initialize AI provider, chat disabled", "error", err)
		} else {
			llm = provider
			embedder = provider
		}
	}
	retriever := retrieval.NewSessionRetriever(st, embedder)
	service.Concierge = ai.NewConcierge(engineForProfile(prof), retriever, llm, st)

	return service
}

// engineForProfile builds the scoring engine, anchoring day-N time
// preferences to the configured conference start date when one is set.
func engineForProfile(prof *profile.Profile) *engine.Engine {
	config := engine.DefaultConfig()
	config.EventStart = prof.EventStartTime()
	return engine.NewEngineWithConfig(config)
}

// Register mounts all API routes on the Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.Use(echomw.CORS())

	apiGroup := echoServer.Group("/api/v1", s.authMiddleware)

	apiGroup.POST("/chat", s.Chat)
	apiGroup.POST("/chat/preview", s.ChatPreview)

	apiGroup.GET("/sessions", s.ListSessions)
	apiGroup.GET("/sessions/:uid", s.GetSession)

	apiGroup.GET("/agenda", s.GetAgenda)
	apiGroup.GET("/agenda/conflicts", s.GetAgendaConflicts)
	apiGroup.GET("/agenda/free-slots", s.GetFreeSlots)
	apiGroup.POST("/agenda/:sessionUid", s.AddFavorite)
	apiGroup.DELETE("/agenda/:sessionUid", s.RemoveFavorite)

	apiGroup.GET("/profile", s.GetProfile)
	apiGroup.PUT("/profile", s.UpsertProfile)

	apiGroup.GET("/conversations", s.ListConversations)
	apiGroup.GET("/conversations/:uid/messages", s.ListConversationMessages)
	apiGroup.DELETE("/conversations/:uid", s.DeleteConversation)

	apiGroup.GET("/metrics", s.GetMetrics)

	echoServer.GET("/healthz", s.Healthz)
}
