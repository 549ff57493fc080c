package store

import (
	"context"
)

// Driver is an interface for store driver. It contains all methods that
// store database driver should implement.
type Driver interface {
	GetDB() any
	Close() error

	// Session model related methods.
	UpsertSession(ctx context.Context, upsert *UpsertSession) (*Session, error)
	ListSessions(ctx context.Context, find *FindSession) ([]*Session, error)

	// Speaker model related methods.
	UpsertSpeaker(ctx context.Context, upsert *Speaker) (*Speaker, error)
	ListSpeakers(ctx context.Context, find *FindSpeaker) ([]*Speaker, error)
	UpsertSessionSpeaker(ctx context.Context, upsert *SessionSpeaker) error

	// UserProfile model related methods.
	UpsertUserProfile(ctx context.Context, upsert *UpsertUserProfile) (*UserProfile, error)
	GetUserProfile(ctx context.Context, find *FindUserProfile) (*UserProfile, error)

	// Favorite model related methods.
	UpsertFavorite(ctx context.Context, upsert *Favorite) (*Favorite, error)
	ListFavorites(ctx context.Context, find *FindFavorite) ([]*Favorite, error)
	DeleteFavorite(ctx context.Context, delete *DeleteFavorite) error

	// Conversation model related methods.
	CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error)
	ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error)
	DeleteConversation(ctx context.Context, delete *DeleteConversation) error
	CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error)
	ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error)

	// Session embedding related methods.
	UpsertSessionEmbedding(ctx context.Context, upsert *SessionEmbedding) error
	VectorSearchSessions(ctx context.Context, opts *VectorSearchOptions) ([]*SessionWithScore, error)
}
