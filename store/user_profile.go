package store

import (
	"context"
)

// UserProfile is the personalization signal for an attendee. It may be
// entirely absent for guests; scoring treats a missing profile as neutral.
type UserProfile struct {
	UserID     int32
	Role       string
	Company    string
	Interests  []string
	Goals      []string
	Experience string
	UpdatedTs  int64
}

// FindUserProfile is the find condition for user profiles.
type FindUserProfile struct {
	UserID int32
}

// UpsertUserProfile is the upsert request for a user profile.
type UpsertUserProfile struct {
	UserID     int32
	Role       string
	Company    string
	Interests  []string
	Goals      []string
	Experience string
}

func (s *Store) UpsertUserProfile(ctx context.Context, upsert *UpsertUserProfile) (*UserProfile, error) {
	profile, err := s.driver.UpsertUserProfile(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.profileCache.Delete(ctx, profileCacheKey(upsert.UserID))
	return profile, nil
}

// GetUserProfile returns the profile for a user, or nil when none exists.
func (s *Store) GetUserProfile(ctx context.Context, find *FindUserProfile) (*UserProfile, error) {
	key := profileCacheKey(find.UserID)
	if cached, ok := s.profileCache.Get(ctx, key); ok {
		if profile, ok := cached.(*UserProfile); ok {
			return profile, nil
		}
	}
	profile, err := s.driver.GetUserProfile(ctx, find)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		s.profileCache.Set(ctx, key, profile)
	}
	return profile, nil
}

func profileCacheKey(userID int32) string {
	return "profile:" + itoa32(userID)
}
