package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

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
		return nil, errors.Wrap(err, "failed to upsert favorite")
	}
	return favorite, nil
}

func (d *DB) ListFavorites(ctx context.Context, find *store.FindFavorite) ([]*store.Favorite, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT user_id, session_id, created_ts
		FROM favorite
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}
	defer rows.Close()

	list := []*store.Favorite{}
	for rows.Next() {
		favorite := &store.Favorite{}
		if err := rows.Scan(&favorite.UserID, &favorite.SessionID, &favorite.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan favorite")
		}
		list = append(list, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteFavorite(ctx context.Context, delete *store.DeleteFavorite) error {
	stmt := `DELETE FROM favorite WHERE user_id = ` + placeholder(1) + ` AND session_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, delete.UserID, delete.SessionID); err != nil {
		return errors.Wrap(err, "failed to delete favorite")
	}
	return nil
}
