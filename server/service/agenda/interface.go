package agenda

import (
	"context"
	"time"

	"github.com/confmate/confmate/server/engine"
)

// Service defines the business logic for an attendee's personal agenda:
// favoriting sessions and surfacing time conflicts between them.
type Service interface {
	// AddFavorite marks a session as part of the user's agenda.
	AddFavorite(ctx context.Context, userID int32, sessionUID string) (*Entry, error)

	// RemoveFavorite drops a session from the user's agenda. Removing a
	// session that was never favorited is not an error.
	RemoveFavorite(ctx context.Context, userID int32, sessionUID string) error

	// GetAgenda returns the user's favorited sessions in start-time order
	// together with every pairwise time conflict among them.
	GetAgenda(ctx context.Context, userID int32) (*Agenda, error)

	// CheckConflicts returns the pairwise time conflicts in the user's
	// agenda without loading entry details.
	CheckConflicts(ctx context.Context, userID int32) ([]engine.Conflict, error)

	// FreeSlots returns the gaps inside [from, to) not covered by any
	// favorited session, for itinerary building. Unscheduled favorites
	// are ignored.
	FreeSlots(ctx context.Context, userID int32, from, to time.Time) ([]TimeSlot, error)
}

// Entry is one favorited session in a personal agenda.
type Entry struct {
	Session     engine.Session `json:"session"`
	FavoritedTs int64          `json:"favoritedTs"`
}

// Agenda is the user's full personal agenda view.
type Agenda struct {
	Entries   []Entry           `json:"entries"`
	Conflicts []engine.Conflict `json:"conflicts"`
}

// TimeSlot is an open period in the user's agenda.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
