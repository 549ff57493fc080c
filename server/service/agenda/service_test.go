package agenda

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errsvc "github.com/confmate/confmate/server/internal/errors"
	"github.com/confmate/confmate/store"
)

// fakeStore is an in-memory Store for agenda tests.
type fakeStore struct {
	sessions  map[int32]*store.Session
	speakers  map[int32][]*store.Speaker
	favorites map[int32]map[int32]int64 // userID -> sessionID -> createdTs
	now       int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:  map[int32]*store.Session{},
		speakers:  map[int32][]*store.Speaker{},
		favorites: map[int32]map[int32]int64{},
		now:       1000,
	}
}

func (f *fakeStore) addSession(id int32, uid, title string, start time.Time, duration time.Duration) {
	startTs := start.Unix()
	endTs := start.Add(duration).Unix()
	f.sessions[id] = &store.Session{
		ID:      id,
		UID:     uid,
		Title:   title,
		Tags:    []string{},
		StartTs: startTs,
		EndTs:   &endTs,
	}
}

func (f *fakeStore) GetSession(_ context.Context, find *store.FindSession) (*store.Session, error) {
	if find.ID != nil {
		return f.sessions[*find.ID], nil
	}
	if find.UID != nil {
		for _, s := range f.sessions {
			if s.UID == *find.UID {
				return s, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStore) ListSpeakers(_ context.Context, find *store.FindSpeaker) ([]*store.Speaker, error) {
	if find.SessionID == nil {
		return nil, nil
	}
	return f.speakers[*find.SessionID], nil
}

func (f *fakeStore) UpsertFavorite(_ context.Context, upsert *store.Favorite) (*store.Favorite, error) {
	if f.favorites[upsert.UserID] == nil {
		f.favorites[upsert.UserID] = map[int32]int64{}
	}
	if _, exists := f.favorites[upsert.UserID][upsert.SessionID]; !exists {
		f.now++
		f.favorites[upsert.UserID][upsert.SessionID] = f.now
	}
	return &store.Favorite{
		UserID:    upsert.UserID,
		SessionID: upsert.SessionID,
		CreatedTs: f.favorites[upsert.UserID][upsert.SessionID],
	}, nil
}

func (f *fakeStore) ListFavorites(_ context.Context, find *store.FindFavorite) ([]*store.Favorite, error) {
	list := []*store.Favorite{}
	for userID, byUser := range f.favorites {
		if find.UserID != nil && userID != *find.UserID {
			continue
		}
		for sessionID, createdTs := range byUser {
			list = append(list, &store.Favorite{UserID: userID, SessionID: sessionID, CreatedTs: createdTs})
		}
	}
	return list, nil
}

func (f *fakeStore) DeleteFavorite(_ context.Context, del *store.DeleteFavorite) error {
	if byUser := f.favorites[del.UserID]; byUser != nil {
		delete(byUser, del.SessionID)
	}
	return nil
}

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 14, hour, min, 0, 0, time.UTC)
}

func TestAddFavorite(t *testing.T) {
	fake := newFakeStore()
	fake.addSession(1, "s-1", "Claims automation", at(9, 0), time.Hour)
	svc := &service{store: fake}

	entry, err := svc.AddFavorite(context.Background(), 7, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", entry.Session.ID)
	assert.NotZero(t, entry.FavoritedTs)
}

func TestAddFavorite_UnknownSession(t *testing.T) {
	svc := &service{store: newFakeStore()}

	_, err := svc.AddFavorite(context.Background(), 7, "nope")
	require.Error(t, err)
	assert.True(t, errsvc.IsCode(err, errsvc.ErrCodeNotFound))
}

func TestAddFavorite_Idempotent(t *testing.T) {
	fake := newFakeStore()
	fake.addSession(1, "s-1", "Claims automation", at(9, 0), time.Hour)
	svc := &service{store: fake}

	first, err := svc.AddFavorite(context.Background(), 7, "s-1")
	require.NoError(t, err)
	second, err := svc.AddFavorite(context.Background(), 7, "s-1")
	require.NoError(t, err)
	assert.Equal(t, first.FavoritedTs, second.FavoritedTs)

	agenda, err := svc.GetAgenda(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, agenda.Entries, 1)
}

func TestRemoveFavorite(t *testing.T) {
	fake := newFakeStore()
	fake.addSession(1, "s-1", "Claims automation", at(9, 0), time.Hour)
	svc := &service{store: fake}

	_, err := svc.AddFavorite(context.Background(), 7, "s-1")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveFavorite(context.Background(), 7, "s-1"))

	agenda, err := svc.GetAgenda(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, agenda.Entries)

	// removing again is not an error
	require.NoError(t, svc.RemoveFavorite(context.Background(), 7, "s-1"))
}

func TestGetAgenda_SortedWithConflicts(t *testing.T) {
	fake := newFakeStore()
	fake.addSession(1, "s-1", "Claims automation", at(9, 0), time.Hour)
	fake.addSession(2, "s-2", "Cyber risk outlook", at(9, 30), time.Hour)
	fake.addSession(3, "s-3", "Afternoon workshop", at(14, 0), time.Hour)
	fake.speakers[1] = []*store.Speaker{{Name: "Dana Reeve", Company: "Acme Insurance"}}
	svc := &service{store: fake}

	ctx := context.Background()
	for _, uid := range []string{"s-3", "s-1", "s-2"} {
		_, err := svc.AddFavorite(ctx, 7, uid)
		require.NoError(t, err)
	}

	agenda, err := svc.GetAgenda(ctx, 7)
	require.NoError(t, err)
	require.Len(t, agenda.Entries, 3)
	assert.Equal(t, "s-1", agenda.Entries[0].Session.ID)
	assert.Equal(t, "s-2", agenda.Entries[1].Session.ID)
	assert.Equal(t, "s-3", agenda.Entries[2].Session.ID)
	require.Len(t, agenda.Entries[0].Session.Speakers, 1)
	assert.Equal(t, "Dana Reeve", agenda.Entries[0].Session.Speakers[0].Name)

	require.Len(t, agenda.Conflicts, 1)
	conflict := agenda.Conflicts[0]
	assert.ElementsMatch(t, []string{"s-1", "s-2"}, []string{conflict.SessionA, conflict.SessionB})
	assert.Equal(t, at(9, 30), conflict.OverlapStart)
	assert.Equal(t, at(10, 0), conflict.OverlapEnd)
}

func TestCheckConflicts_NoOverlap(t *testing.T) {
	fake := newFakeStore()
	fake.addSession(1, "s-1", "Claims automation", at(9, 0), time.Hour)
	fake.addSession(2, "s-2", "Cyber risk outlook", at(10, 0), time.Hour)
	svc := &service{store: fake}

	ctx := context.Background()
	_, err := svc.AddFavorite(ctx, 7, "s-1")
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, 7, "s-2")
	require.NoError(t, err)

	conflicts, err := svc.CheckConflicts(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, conflicts, "back-to-back sessions do not conflict")
}

func TestGetAgenda_SkipsDanglingFavorites(t *testing.T) {
	fake := newFakeStore()
	fake.addSession(1, "s-1", "Claims automation", at(9, 0), time.Hour)
	svc := &service{store: fake}

	ctx := context.Background()
	_, err := svc.AddFavorite(ctx, 7, "s-1")
	require.NoError(t, err)

	// simulate an agenda sync removing the session
	delete(fake.sessions, 1)

	agenda, err := svc.GetAgenda(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, agenda.Entries)
}

func TestFreeSlots(t *testing.T) {
	fake := newFakeStore()
	fake.addSession(1, "s-1", "Claims automation", at(9, 0), time.Hour)
	fake.addSession(2, "s-2", "AI in underwriting", at(9, 30), time.Hour)
	fake.addSession(3, "s-3", "Cyber risk panel", at(13, 0), time.Hour)
	svc := &service{store: fake}

	ctx := context.Background()
	for _, uid := range []string{"s-1", "s-2", "s-3"} {
		_, err := svc.AddFavorite(ctx, 7, uid)
		require.NoError(t, err)
	}

	slots, err := svc.FreeSlots(ctx, 7, at(8, 0), at(17, 0))
	require.NoError(t, err)
	// busy: 9:00-10:30 (merged overlap) and 13:00-14:00
	require.Len(t, slots, 3)
	assert.Equal(t, at(8, 0), slots[0].Start)
	assert.Equal(t, at(9, 0), slots[0].End)
	assert.Equal(t, at(10, 30), slots[1].Start)
	assert.Equal(t, at(13, 0), slots[1].End)
	assert.Equal(t, at(14, 0), slots[2].Start)
	assert.Equal(t, at(17, 0), slots[2].End)
}

func TestFreeSlots_EmptyAgendaIsOneOpenSlot(t *testing.T) {
	svc := &service{store: newFakeStore()}

	slots, err := svc.FreeSlots(context.Background(), 7, at(8, 0), at(17, 0))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(8, 0), slots[0].Start)
	assert.Equal(t, at(17, 0), slots[0].End)
}

func TestFreeSlots_EmptyWindow(t *testing.T) {
	svc := &service{store: newFakeStore()}

	_, err := svc.FreeSlots(context.Background(), 7, at(10, 0), at(10, 0))
	require.Error(t, err)
	assert.True(t, errsvc.IsCode(err, errsvc.ErrCodeInvalidArgument))
}
