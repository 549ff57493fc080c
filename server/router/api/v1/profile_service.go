package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/confmate/confmate/store"
)

const maxProfileListItems = 20

// UserProfileRequest is the body of PUT /api/v1/profile.
type UserProfileRequest struct {
	Role       string   `json:"role"`
	Company    string   `json:"company"`
	Interests  []string `json:"interests"`
	Goals      []string `json:"goals"`
	Experience string   `json:"experience"`
}

// UserProfileView is the API shape of an attendee profile.
type UserProfileView struct {
	Role       string   `json:"role"`
	Company    string   `json:"company"`
	Interests  []string `json:"interests"`
	Goals      []string `json:"goals"`
	Experience string   `json:"experience"`
	UpdatedTs  int64    `json:"updatedTs"`
}

// GetProfile returns the caller's personalization profile. A user who never
// saved one gets 404; scoring treats them as anonymous either way.
func (s *APIV1Service) GetProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	stored, err := s.Store.GetUserProfile(c.Request().Context(), &store.FindUserProfile{UserID: userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load profile")
	}
	if stored == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no profile saved")
	}
	return c.JSON(http.StatusOK, profileView(stored))
}

// UpsertProfile creates or replaces the caller's personalization profile.
func (s *APIV1Service) UpsertProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	request := &UserProfileRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if len(request.Interests) > maxProfileListItems || len(request.Goals) > maxProfileListItems {
		return echo.NewHTTPError(http.StatusBadRequest, "too many interests or goals")
	}

	stored, err := s.Store.UpsertUserProfile(c.Request().Context(), &store.UpsertUserProfile{
		UserID:     userID,
		Role:       request.Role,
		Company:    request.Company,
		Interests:  request.Interests,
		Goals:      request.Goals,
		Experience: request.Experience,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save profile")
	}
	return c.JSON(http.StatusOK, profileView(stored))
}

func profileView(stored *store.UserProfile) *UserProfileView {
	return &UserProfileView{
		Role:       stored.Role,
		Company:    stored.Company,
		Interests:  stored.Interests,
		Goals:      stored.Goals,
		Experience: stored.Experience,
		UpdatedTs:  stored.UpdatedTs,
	}
}
