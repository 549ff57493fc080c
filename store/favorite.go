package store

import (
	"context"
)

// Favorite marks a session as part of a user's personal agenda.
type Favorite struct {
	UserID    int32
	SessionID int32
	CreatedTs int64
}

// FindFavorite is the find condition for favorites.
type FindFavorite struct {
	UserID    *int32
	SessionID *int32
}

// DeleteFavorite is the delete request for a favorite.
type DeleteFavorite struct {
	UserID    int32
	SessionID int32
}

func (s *Store) UpsertFavorite(ctx context.Context, upsert *Favorite) (*Favorite, error) {
	return s.driver.UpsertFavorite(ctx, upsert)
}

func (s *Store) ListFavorites(ctx context.Context, find *FindFavorite) ([]*Favorite, error) {
	return s.driver.ListFavorites(ctx, find)
}

func (s *Store) DeleteFavorite(ctx context.Context, delete *DeleteFavorite) error {
	return s.driver.DeleteFavorite(ctx, delete)
}
