// Package agenda implements the personal agenda service: favorites plus
// conflict detection over the favorited sessions.
package agenda

import (
	"context"
	"sort"
	"time"

	"github.com/confmate/confmate/server/engine"
	errsvc "github.com/confmate/confmate/server/internal/errors"
	"github.com/confmate/confmate/server/retrieval"
	"github.com/confmate/confmate/store"
)

type service struct {
	store Store
}

// Store is the interface for store operations needed by the agenda service.
type Store interface {
	GetSession(ctx context.Context, find *store.FindSession) (*store.Session, error)
	ListSpeakers(ctx context.Context, find *store.FindSpeaker) ([]*store.Speaker, error)
	UpsertFavorite(ctx context.Context, upsert *store.Favorite) (*store.Favorite, error)
	ListFavorites(ctx context.Context, find *store.FindFavorite) ([]*store.Favorite, error)
	DeleteFavorite(ctx context.Context, delete *store.DeleteFavorite) error
}

// NewService creates a new agenda service.
func NewService(store *store.Store) Service {
	return &service{store: store}
}

func (s *service) AddFavorite(ctx context.Context, userID int32, sessionUID string) (*Entry, error) {
	session, err := s.store.GetSession(ctx, &store.FindSession{UID: &sessionUID})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errsvc.NotFound("session " + sessionUID + " not found")
	}

	favorite, err := s.store.UpsertFavorite(ctx, &store.Favorite{
		UserID:    userID,
		SessionID: session.ID,
	})
	if err != nil {
		return nil, err
	}
	return &Entry{
		Session:     retrieval.ToEngineSession(session),
		FavoritedTs: favorite.CreatedTs,
	}, nil
}

func (s *service) RemoveFavorite(ctx context.Context, userID int32, sessionUID string) error {
	session, err := s.store.GetSession(ctx, &store.FindSession{UID: &sessionUID})
	if err != nil {
		return err
	}
	if session == nil {
		return errsvc.NotFound("session " + sessionUID + " not found")
	}
	return s.store.DeleteFavorite(ctx, &store.DeleteFavorite{
		UserID:    userID,
		SessionID: session.ID,
	})
}

func (s *service) GetAgenda(ctx context.Context, userID int32) (*Agenda, error) {
	entries, err := s.loadEntries(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return &Agenda{
		Entries:   entries,
		Conflicts: conflictsOf(entries),
	}, nil
}

func (s *service) CheckConflicts(ctx context.Context, userID int32) ([]engine.Conflict, error) {
	entries, err := s.loadEntries(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return conflictsOf(entries), nil
}

// FreeSlots computes the gaps in [from, to) left open by the user's
// scheduled favorites. Busy intervals are clamped to the window and merged
// before the gaps are read off.
func (s *service) FreeSlots(ctx context.Context, userID int32, from, to time.Time) ([]TimeSlot, error) {
	if !to.After(from) {
		return nil, errsvc.InvalidArgument("the time window is empty")
	}
	entries, err := s.loadEntries(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	busy := make([]TimeSlot, 0, len(entries))
	for _, entry := range entries {
		session := entry.Session
		if !session.Scheduled() {
			continue
		}
		start, end := *session.StartTime, *session.EndTime
		if !end.After(from) || !start.Before(to) {
			continue
		}
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		busy = append(busy, TimeSlot{Start: start, End: end})
	}
	// entries are start-sorted, so busy is too; merge overlapping runs.
	merged := busy[:0]
	for _, slot := range busy {
		if n := len(merged); n > 0 && !slot.Start.After(merged[n-1].End) {
			if slot.End.After(merged[n-1].End) {
				merged[n-1].End = slot.End
			}
			continue
		}
		merged = append(merged, slot)
	}

	free := []TimeSlot{}
	cursor := from
	for _, slot := range merged {
		if slot.Start.After(cursor) {
			free = append(free, TimeSlot{Start: cursor, End: slot.Start})
		}
		cursor = slot.End
	}
	if cursor.Before(to) {
		free = append(free, TimeSlot{Start: cursor, End: to})
	}
	return free, nil
}

func conflictsOf(entries []Entry) []engine.Conflict {
	sessions := make([]engine.Session, 0, len(entries))
	for _, entry := range entries {
		sessions = append(sessions, entry.Session)
	}
	return engine.DetectConflicts(sessions)
}

// loadEntries resolves the user's favorites to sessions, sorted by start
// time with unscheduled sessions last. withSpeakers controls whether the
// speaker lists are attached.
func (s *service) loadEntries(ctx context.Context, userID int32, withSpeakers bool) ([]Entry, error) {
	favorites, err := s.store.ListFavorites(ctx, &store.FindFavorite{UserID: &userID})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(favorites))
	for _, favorite := range favorites {
		session, err := s.store.GetSession(ctx, &store.FindSession{ID: &favorite.SessionID})
		if err != nil {
			return nil, err
		}
		if session == nil {
			// The session was removed by an agenda sync; skip the
			// dangling favorite.
			continue
		}
		converted := retrieval.ToEngineSession(session)
		if withSpeakers {
			speakers, err := s.store.ListSpeakers(ctx, &store.FindSpeaker{SessionID: &session.ID})
			if err != nil {
				return nil, err
			}
			for _, speaker := range speakers {
				converted.Speakers = append(converted.Speakers, engine.Speaker{
					Name:    speaker.Name,
					Role:    speaker.Role,
					Company: speaker.Company,
					Bio:     speaker.Bio,
				})
			}
		}
		entries = append(entries, Entry{Session: converted, FavoritedTs: favorite.CreatedTs})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Session, entries[j].Session
		switch {
		case a.StartTime == nil && b.StartTime == nil:
			return a.ID < b.ID
		case a.StartTime == nil:
			return false
		case b.StartTime == nil:
			return true
		case !a.StartTime.Equal(*b.StartTime):
			return a.StartTime.Before(*b.StartTime)
		default:
			return a.ID < b.ID
		}
	})
	return entries, nil
}
