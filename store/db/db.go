package db

import (
	"github.com/pkg/errors"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/store"
	"github.com/confmate/confmate/store/db/postgres"
	"github.com/confmate/confmate/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile. Postgres is the
// production driver; sqlite covers development and demo deployments but has
// no vector search.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
