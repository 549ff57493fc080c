package store

import (
	"context"
	"strconv"
)

// MessageRole is the author role of a conversation message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Conversation is a concierge chat thread.
type Conversation struct {
	ID        int32
	UID       string
	UserID    int32
	Title     string
	CreatedTs int64
	UpdatedTs int64
}

// FindConversation is the find condition for conversations.
type FindConversation struct {
	ID     *int32
	UID    *string
	UserID *int32
	Limit  *int
}

// DeleteConversation is the delete request for a conversation.
type DeleteConversation struct {
	ID int32
}

// ConversationMessage is one message in a conversation.
type ConversationMessage struct {
	ID             int32
	ConversationID int32
	Role           MessageRole
	Content        string
	CreatedTs      int64
}

// FindConversationMessage is the find condition for conversation messages.
type FindConversationMessage struct {
	ConversationID *int32
	Limit          *int
}

func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	return s.driver.CreateConversation(ctx, create)
}

func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

func (s *Store) DeleteConversation(ctx context.Context, delete *DeleteConversation) error {
	return s.driver.DeleteConversation(ctx, delete)
}

func (s *Store) CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error) {
	return s.driver.CreateConversationMessage(ctx, create)
}

func (s *Store) ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error) {
	return s.driver.ListConversationMessages(ctx, find)
}

func itoa32(n int32) string {
	return strconv.FormatInt(int64(n), 10)
}
