package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/confmate/confmate/server/internal/observability"
)

// GetMetrics returns runtime concierge counters.
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, observability.GlobalMetrics().SnapshotNow())
}

// Healthz is the liveness probe.
func (s *APIV1Service) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}
