package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/confmate/confmate/store"
)

func (d *DB) UpsertSession(ctx context.Context, upsert *store.UpsertSession) (*store.Session, error) {
	var endTs sql.NullInt64
	if upsert.EndTs != nil {
		endTs = sql.NullInt64{Int64: *upsert.EndTs, Valid: true}
	}

	stmt := `
		INSERT INTO session (uid, title, description, location, track, level, tags, start_ts, end_ts, source_url)
		VALUES (` + placeholders(10) + `)
		ON CONFLICT (uid) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			track = EXCLUDED.track,
			level = EXCLUDED.level,
			tags = EXCLUDED.tags,
			start_ts = EXCLUDED.start_ts,
			end_ts = EXCLUDED.end_ts,
			source_url = EXCLUDED.source_url,
			updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT
		RETURNING id`
	var id int32
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UID,
		upsert.Title,
		upsert.Description,
		upsert.Location,
		upsert.Track,
		upsert.Level,
		joinTags(upsert.Tags),
		upsert.StartTs,
		endTs,
		upsert.SourceURL,
	).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "failed to upsert session")
	}

	sessions, err := d.ListSessions(ctx, &store.FindSession{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, errors.Errorf("session %d not found after upsert", id)
	}
	return sessions[0], nil
}

func (d *DB) ListSessions(ctx context.Context, find *store.FindSession) ([]*store.Session, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StartTs; v != nil {
		where, args = append(where, "start_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.EndTs; v != nil {
		where, args = append(where, "start_ts < "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Track; v != nil {
		where, args = append(where, "track = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Level; v != nil {
		where, args = append(where, "level = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "row_status = "+placeholder(len(args)+1)), append(args, string(*v))
	}

	query := `
		SELECT id, uid, row_status, created_ts, updated_ts, title, description, location, track, level, tags, start_ts, end_ts, source_url
		FROM session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY start_ts ASC, id ASC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	defer rows.Close()

	list := []*store.Session{}
	for rows.Next() {
		session := &store.Session{}
		var tags string
		var endTs sql.NullInt64
		if err := rows.Scan(
			&session.ID,
			&session.UID,
			&session.RowStatus,
			&session.CreatedTs,
			&session.UpdatedTs,
			&session.Title,
			&session.Description,
			&session.Location,
			&session.Track,
			&session.Level,
			&tags,
			&session.StartTs,
			&endTs,
			&session.SourceURL,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan session")
		}
		session.Tags = splitTags(tags)
		if endTs.Valid {
			session.EndTs = &endTs.Int64
		}
		list = append(list, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpsertSpeaker(ctx context.Context, upsert *store.Speaker) (*store.Speaker, error) {
	stmt := `
		INSERT INTO speaker (name, role, company, bio, image_url, social_url)
		VALUES (` + placeholders(6) + `)
		ON CONFLICT (name) DO UPDATE SET
			role = EXCLUDED.role,
			company = EXCLUDED.company,
			bio = EXCLUDED.bio,
			image_url = EXCLUDED.image_url,
			social_url = EXCLUDED.social_url
		RETURNING id, created_ts`
	speaker := *upsert
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.Name,
		upsert.Role,
		upsert.Company,
		upsert.Bio,
		upsert.ImageURL,
		upsert.SocialURL,
	).Scan(&speaker.ID, &speaker.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert speaker")
	}
	return &speaker, nil
}

func (d *DB) ListSpeakers(ctx context.Context, find *store.FindSpeaker) ([]*store.Speaker, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "speaker.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "speaker.name = "+placeholder(len(args)+1)), append(args, *v)
	}

	from := "speaker"
	if v := find.SessionID; v != nil {
		from += " JOIN session_speaker ON session_speaker.speaker_id = speaker.id"
		where, args = append(where, "session_speaker.session_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT speaker.id, speaker.name, speaker.role, speaker.company, speaker.bio, speaker.image_url, speaker.social_url, speaker.created_ts
		FROM ` + from + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY speaker.name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list speakers")
	}
	defer rows.Close()

	list := []*store.Speaker{}
	for rows.Next() {
		speaker := &store.Speaker{}
		if err := rows.Scan(
			&speaker.ID,
			&speaker.Name,
			&speaker.Role,
			&speaker.Company,
			&speaker.Bio,
			&speaker.ImageURL,
			&speaker.SocialURL,
			&speaker.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan speaker")
		}
		list = append(list, speaker)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpsertSessionSpeaker(ctx context.Context, upsert *store.SessionSpeaker) error {
	stmt := `
		INSERT INTO session_speaker (session_id, speaker_id)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT (session_id, speaker_id) DO NOTHING`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.SessionID, upsert.SpeakerID); err != nil {
		return errors.Wrap(err, "failed to upsert session speaker")
	}
	return nil
}
