package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/store"
)

// DB is the postgres implementation of store.Driver. Postgres is the
// production driver and the only one with vector search (pgvector).
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the postgres database at profile.DSN and ensures the schema.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// The concierge is read-heavy and bursty around keynotes; a small pool
	// with warm idle connections covers it.
	pgDB.SetMaxOpenConns(10)
	pgDB.SetMaxIdleConns(2)
	pgDB.SetConnMaxLifetime(2 * time.Hour)
	pgDB.SetConnMaxIdleTime(15 * time.Minute)

	if err := pgDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	driver := &DB{db: pgDB, profile: profile}
	if err := driver.ensureSchema(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to ensure schema")
	}
	return driver, nil
}

func (d *DB) GetDB() any {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) ensureSchema(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, latestSchema)
	return err
}

// placeholder returns a $n placeholder for postgres.
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n comma-joined placeholders starting at $1.
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// joinTags and splitTags keep the tag column format identical to the sqlite
// driver so a dump can move between the two.
func joinTags(tags []string) string {
	return strings.Join(tags, "|")
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, "|")
}

const latestSchema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS session (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	row_status TEXT NOT NULL DEFAULT 'NORMAL',
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	track TEXT NOT NULL DEFAULT '',
	level TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	start_ts BIGINT NOT NULL DEFAULT 0,
	end_ts BIGINT,
	source_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS speaker (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	social_url TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE TABLE IF NOT EXISTS session_speaker (
	session_id INTEGER NOT NULL REFERENCES session (id) ON DELETE CASCADE,
	speaker_id INTEGER NOT NULL REFERENCES speaker (id) ON DELETE CASCADE,
	PRIMARY KEY (session_id, speaker_id)
);

CREATE TABLE IF NOT EXISTS user_profile (
	user_id INTEGER PRIMARY KEY,
	role TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	interests TEXT NOT NULL DEFAULT '',
	goals TEXT NOT NULL DEFAULT '',
	experience TEXT NOT NULL DEFAULT '',
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE TABLE IF NOT EXISTS favorite (
	user_id INTEGER NOT NULL,
	session_id INTEGER NOT NULL REFERENCES session (id) ON DELETE CASCADE,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
	PRIMARY KEY (user_id, session_id)
);

CREATE TABLE IF NOT EXISTS conversation (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE TABLE IF NOT EXISTS conversation_message (
	id SERIAL PRIMARY KEY,
	conversation_id INTEGER NOT NULL REFERENCES conversation (id) ON DELETE CASCADE,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE TABLE IF NOT EXISTS session_embedding (
	session_id INTEGER PRIMARY KEY REFERENCES session (id) ON DELETE CASCADE,
	embedding vector(1536) NOT NULL,
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE INDEX IF NOT EXISTS idx_session_start_ts ON session (start_ts);
CREATE INDEX IF NOT EXISTS idx_favorite_user_id ON favorite (user_id);
CREATE INDEX IF NOT EXISTS idx_message_conversation_id ON conversation_message (conversation_id);
`
