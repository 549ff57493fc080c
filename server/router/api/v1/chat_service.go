package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/confmate/confmate/server/ai"
	errsvc "github.com/confmate/confmate/server/internal/errors"
	"github.com/confmate/confmate/server/internal/observability"
)

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message         string `json:"message"`
	ConversationUID string `json:"conversationUid,omitempty"`
	// Stream selects server-sent events over a single JSON reply.
	Stream bool `json:"stream,omitempty"`
}

// Chat answers one concierge message. With stream=true the reply arrives as
// server-sent events: a context event, content chunks, then a single done or
// error event.
func (s *APIV1Service) Chat(c echo.Context) error {
	request := &ChatRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	userID := currentUserID(c)
	rateKey := strconv.FormatInt(int64(userID), 10)
	if !s.rateLimiter.Allow(rateKey) {
		return conciergeHTTPError(errsvc.RateLimitExceeded("too many requests, slow down"))
	}

	ctx := c.Request().Context()
	if err := s.chatSemaphore.Acquire(ctx, 1); err != nil {
		return conciergeHTTPError(errsvc.ContextCanceled(err))
	}
	defer s.chatSemaphore.Release(1)

	reqCtx := observability.NewRequestContextWithID(slog.Default(), uuid.New().String(), userID)
	ctx = observability.WithRequestContext(ctx, reqCtx)
	defer func() {
		observability.GlobalMetrics().RecordDuration(reqCtx.Duration())
	}()

	askRequest := &ai.AskRequest{
		UserID:          userID,
		ConversationUID: request.ConversationUID,
		Message:         request.Message,
	}

	if !request.Stream {
		answer, err := s.Concierge.Ask(ctx, askRequest)
		if err != nil {
			reqCtx.Error("chat failed", err)
			return conciergeHTTPError(err)
		}
		return c.JSON(http.StatusOK, answer)
	}

	events, err := s.Concierge.Stream(ctx, askRequest)
	if err != nil {
		reqCtx.Error("chat stream failed", err)
		return conciergeHTTPError(err)
	}
	return writeSSE(c, events)
}

// ChatPreview runs the context pipeline without calling the LLM, returning
// the assembled payload. Useful for debugging relevance and for clients that
// render their own recommendations.
func (s *APIV1Service) ChatPreview(c echo.Context) error {
	request := &ChatRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	userID := currentUserID(c)
	reqCtx := observability.NewRequestContextWithID(slog.Default(), uuid.New().String(), userID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	payload, err := s.Concierge.Prepare(ctx, &ai.AskRequest{
		UserID:  userID,
		Message: request.Message,
	})
	if err != nil {
		return conciergeHTTPError(err)
	}
	return c.JSON(http.StatusOK, payload)
}

// writeSSE forwards concierge stream events as server-sent events, flushing
// after each one so chunks reach the client as they arrive.
func writeSSE(c echo.Context, events <-chan ai.StreamEvent) error {
	response := c.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			slog.Warn("failed to marshal stream event", "error", err)
			continue
		}
		if _, err := fmt.Fprintf(response, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
			// Client went away; drain the channel so the producer exits.
			for range events {
			}
			return nil
		}
		response.Flush()

		if ctx.Err() != nil {
			for range events {
			}
			return nil
		}
	}
	return nil
}

// conciergeHTTPError maps a ConciergeError code to an HTTP status, keeping
// the stable code in the response body.
func conciergeHTTPError(err error) error {
	code := errsvc.GetCodeFromError(err, errsvc.ErrCodeServiceUnavailable)
	status := http.StatusServiceUnavailable
	switch code {
	case errsvc.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errsvc.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case errsvc.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case errsvc.ErrCodeNotFound:
		status = http.StatusNotFound
	case errsvc.ErrCodeContextCanceled:
		// nginx's non-standard "client closed request"
		status = 499
	case errsvc.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	return echo.NewHTTPError(status, map[string]string{
		"code":    string(code),
		"message": err.Error(),
	})
}
