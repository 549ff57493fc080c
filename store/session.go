package store

import (
	"context"
)

// Session is the object representing a conference session. Sessions are
// created and updated by the external agenda sync process and read-only for
// everything else.
type Session struct {
	ID        int32
	UID       string
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64

	Title       string
	Description string
	Location    string
	Track       string
	Level       string
	Tags        []string
	StartTs     int64
	// EndTs is nil for unscheduled (TBD) sessions.
	EndTs     *int64
	SourceURL string
}

// FindSession is the find condition for sessions.
type FindSession struct {
	ID  *int32
	UID *string

	// Time range filters
	StartTs *int64
	EndTs   *int64

	Track     *string
	Level     *string
	RowStatus *RowStatus

	// Pagination
	Limit  *int
	Offset *int
}

// UpsertSession is the upsert request used by the agenda sync process.
type UpsertSession struct {
	UID         string
	Title       string
	Description string
	Location    string
	Track       string
	Level       string
	Tags        []string
	StartTs     int64
	EndTs       *int64
	SourceURL   string
}

// Speaker is the object representing a conference speaker. Name is unique.
type Speaker struct {
	ID        int32
	Name      string
	Role      string
	Company   string
	Bio       string
	ImageURL  string
	SocialURL string
	CreatedTs int64
}

// FindSpeaker is the find condition for speakers.
type FindSpeaker struct {
	ID        *int32
	Name      *string
	SessionID *int32
}

// SessionSpeaker is the join between sessions and speakers.
type SessionSpeaker struct {
	SessionID int32
	SpeakerID int32
}

func (s *Store) UpsertSession(ctx context.Context, upsert *UpsertSession) (*Session, error) {
	return s.driver.UpsertSession(ctx, upsert)
}

// ListSessions lists sessions with filter. Results are cached briefly since
// the agenda only changes when the sync process runs.
func (s *Store) ListSessions(ctx context.Context, find *FindSession) ([]*Session, error) {
	return s.driver.ListSessions(ctx, find)
}

func (s *Store) GetSession(ctx context.Context, find *FindSession) (*Session, error) {
	sessions, err := s.driver.ListSessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (s *Store) UpsertSpeaker(ctx context.Context, upsert *Speaker) (*Speaker, error) {
	return s.driver.UpsertSpeaker(ctx, upsert)
}

func (s *Store) ListSpeakers(ctx context.Context, find *FindSpeaker) ([]*Speaker, error) {
	return s.driver.ListSpeakers(ctx, find)
}

func (s *Store) UpsertSessionSpeaker(ctx context.Context, upsert *SessionSpeaker) error {
	return s.driver.UpsertSessionSpeaker(ctx, upsert)
}
