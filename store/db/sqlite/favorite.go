package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/confmate/confmate/store"
)

func (d *DB) UpsertFavorite(ctx context.Context, upsert *store.Favorite) (*store.Favorite, error) {
	stmt := `
		INSERT INTO favorite (user_id, session_id)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT (user_id, session_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING created_ts`
	favorite := &store.Favorite{UserID: upsert.UserID, SessionID: upsert.SessionID}
	if err := d.db.QueryRowContext(ctx, stmt, upsert.UserID, upsert.SessionID).Scan(&favorite.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert favorite: %w", err)
	}
	return favorite, nil
}

func (d *DB) ListFavorites(ctx context.Context, find *store.FindFavorite) ([]*store.Favorite, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = ?"), append(args, *v)
	}

	query := `
		SELECT user_id, session_id, created_ts
		FROM favorite
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	list := []*store.Favorite{}
	for rows.Next() {
		favorite := &store.Favorite{}
		if err := rows.Scan(&favorite.UserID, &favorite.SessionID, &favorite.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		list = append(list, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteFavorite(ctx context.Context, delete *store.DeleteFavorite) error {
	stmt := `DELETE FROM favorite WHERE user_id = ? AND session_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.UserID, delete.SessionID); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}
