package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/store"
)

// DB is the sqlite implementation of store.Driver. SQLite is intended for
// development and small single-node deployments; vector search requires the
// postgres driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the sqlite database at profile.DSN and ensures the schema.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := &DB{db: sqliteDB, profile: profile}
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

// isUniqueViolation reports whether err is a sqlite unique-constraint error.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// placeholder returns a placeholder for sqlite (uses ?).
func placeholder(int) string {
	return "?"
}

// placeholders returns n comma-joined placeholders.
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// joinTags serializes a tag list for a TEXT column. Tags come from the
// agenda sync feed, which uses "|" as the separator.
func joinTags(tags []string) string {
	return strings.Join(tags, "|")
}

// splitTags deserializes a tag column; empty input yields an empty slice.
func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, "|")
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	row_status TEXT NOT NULL DEFAULT 'NORMAL',
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
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
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	social_url TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
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
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE TABLE IF NOT EXISTS favorite (
	user_id INTEGER NOT NULL,
	session_id INTEGER NOT NULL REFERENCES session (id) ON DELETE CASCADE,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	PRIMARY KEY (user_id, session_id)
);

CREATE TABLE IF NOT EXISTS conversation (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE TABLE IF NOT EXISTS conversation_message (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversation (id) ON DELETE CASCADE,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_session_start_ts ON session (start_ts);
CREATE INDEX IF NOT EXISTS idx_favorite_user_id ON favorite (user_id);
CREATE INDEX IF NOT EXISTS idx_message_conversation_id ON conversation_message (conversation_id);
`
