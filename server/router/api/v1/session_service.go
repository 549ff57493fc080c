package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/confmate/confmate/server/engine"
	"github.com/confmate/confmate/server/retrieval"
	"github.com/confmate/confmate/store"
)

// maxSessionPageSize caps the catalog page size.
const maxSessionPageSize = 200

// SessionView is one catalog session with its speakers attached.
type SessionView struct {
	engine.Session
	SourceURL string `json:"sourceUrl,omitempty"`
}

// ListSessions returns the session catalog, filtered by track, level and
// time range.
func (s *APIV1Service) ListSessions(c echo.Context) error {
	normal := store.Normal
	find := &store.FindSession{RowStatus: &normal}

	if track := c.QueryParam("track"); track != "" {
		find.Track = &track
	}
	if level := c.QueryParam("level"); level != "" {
		find.Level = &level
	}
	if v := c.QueryParam("startAfter"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "startAfter must be a unix timestamp")
		}
		find.StartTs = &ts
	}
	if v := c.QueryParam("endBefore"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "endBefore must be a unix timestamp")
		}
		find.EndTs = &ts
	}

	limit := maxSessionPageSize
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		if parsed < limit {
			limit = parsed
		}
	}
	find.Limit = &limit
	if v := c.QueryParam("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "offset must be a non-negative integer")
		}
		find.Offset = &parsed
	}

	sessions, err := s.Store.ListSessions(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list sessions")
	}

	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, s.sessionView(c, session, false))
	}
	return c.JSON(http.StatusOK, views)
}

// GetSession returns one session by UID, with speakers.
func (s *APIV1Service) GetSession(c echo.Context) error {
	uid := c.Param("uid")
	session, err := s.Store.GetSession(c.Request().Context(), &store.FindSession{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load session")
	}
	if session == nil || session.RowStatus != store.Normal {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, s.sessionView(c, session, true))
}

// sessionView converts a stored session, optionally attaching speakers.
// Speaker lookups are per-session, so the list endpoint skips them.
func (s *APIV1Service) sessionView(c echo.Context, session *store.Session, withSpeakers bool) SessionView {
	view := SessionView{
		Session:   retrieval.ToEngineSession(session),
		SourceURL: session.SourceURL,
	}
	if withSpeakers {
		speakers, err := s.Store.ListSpeakers(c.Request().Context(), &store.FindSpeaker{SessionID: &session.ID})
		if err == nil {
			for _, speaker := range speakers {
				view.Speakers = append(view.Speakers, engine.Speaker{
					Name:    speaker.Name,
					Role:    speaker.Role,
					Company: speaker.Company,
				})
			}
		}
	}
	return view
}
