package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/confmate/confmate/store"
)

// ConversationView is the API shape of a chat thread.
type ConversationView struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

// ConversationMessageView is one message in a thread.
type ConversationMessageView struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedTs int64  `json:"createdTs"`
}

// ListConversations returns the caller's chat threads, most recent first.
func (s *APIV1Service) ListConversations(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	conversations, err := s.Store.ListConversations(c.Request().Context(), &store.FindConversation{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list conversations")
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, conversation := range conversations {
		views = append(views, ConversationView{
			UID:       conversation.UID,
			Title:     conversation.Title,
			CreatedTs: conversation.CreatedTs,
			UpdatedTs: conversation.UpdatedTs,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// ListConversationMessages returns the messages of one thread in order.
func (s *APIV1Service) ListConversationMessages(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	conversation, err := s.findOwnConversation(c, userID)
	if err != nil {
		return err
	}

	messages, err := s.Store.ListConversationMessages(c.Request().Context(), &store.FindConversationMessage{
		ConversationID: &conversation.ID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list messages")
	}

	views := make([]ConversationMessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, ConversationMessageView{
			Role:      string(message.Role),
			Content:   message.Content,
			CreatedTs: message.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// DeleteConversation removes one thread and its messages.
func (s *APIV1Service) DeleteConversation(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	conversation, err := s.findOwnConversation(c, userID)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteConversation(c.Request().Context(), &store.DeleteConversation{ID: conversation.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete conversation")
	}
	return c.NoContent(http.StatusNoContent)
}

// findOwnConversation resolves the :uid route param to a conversation owned
// by the caller. Threads of other users read as not found, never forbidden.
func (s *APIV1Service) findOwnConversation(c echo.Context, userID int32) (*store.Conversation, error) {
	uid := c.Param("uid")
	conversations, err := s.Store.ListConversations(c.Request().Context(), &store.FindConversation{UID: &uid})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load conversation")
	}
	if len(conversations) == 0 || conversations[0].UserID != userID {
		return nil, echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	return conversations[0], nil
}
