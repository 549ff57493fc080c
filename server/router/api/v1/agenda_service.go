package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// GetAgenda returns the caller's favorited sessions with conflicts.
func (s *APIV1Service) GetAgenda(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	agendaView, err := s.AgendaService.GetAgenda(c.Request().Context(), userID)
	if err != nil {
		return conciergeHTTPError(err)
	}
	return c.JSON(http.StatusOK, agendaView)
}

// GetAgendaConflicts returns only the pairwise time conflicts in the
// caller's agenda.
func (s *APIV1Service) GetAgendaConflicts(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	conflicts, err := s.AgendaService.CheckConflicts(c.Request().Context(), userID)
	if err != nil {
		return conciergeHTTPError(err)
	}
	return c.JSON(http.StatusOK, conflicts)
}

// GetFreeSlots returns the open periods in the caller's agenda inside the
// [from, to) unix-timestamp window.
func (s *APIV1Service) GetFreeSlots(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	from, err := strconv.ParseInt(c.QueryParam("from"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from must be a unix timestamp")
	}
	to, err := strconv.ParseInt(c.QueryParam("to"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to must be a unix timestamp")
	}

	slots, err := s.AgendaService.FreeSlots(c.Request().Context(), userID,
		time.Unix(from, 0).UTC(), time.Unix(to, 0).UTC())
	if err != nil {
		return conciergeHTTPError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

// AddFavorite adds a session to the caller's agenda.
func (s *APIV1Service) AddFavorite(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	entry, err := s.AgendaService.AddFavorite(c.Request().Context(), userID, c.Param("sessionUid"))
	if err != nil {
		return conciergeHTTPError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// RemoveFavorite drops a session from the caller's agenda. Removing a
// session that was never favorited succeeds.
func (s *APIV1Service) RemoveFavorite(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := s.AgendaService.RemoveFavorite(c.Request().Context(), userID, c.Param("sessionUid")); err != nil {
		return conciergeHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
