package store

import (
	"time"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Caches
	profileCache  *cache.Cache // cache for user profiles
	responseCache *cache.Cache // cache for assembled concierge responses
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:        driver,
		profile:       profile,
		profileCache:  cache.New(cacheConfig),
		responseCache: cache.New(cache.Config{
			DefaultTTL:      5 * time.Minute,
			CleanupInterval: time.Minute,
			MaxItems:        500,
		}),
	}
}

// ResponseCache exposes the concierge response cache.
func (s *Store) ResponseCache() *cache.Cache {
	return s.responseCache
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.profileCache.Close()
	s.responseCache.Close()
	return s.driver.Close()
}
