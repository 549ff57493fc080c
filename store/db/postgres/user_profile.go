package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/confmate/confmate/store"
)

func (d *DB) UpsertUserProfile(ctx context.Context, upsert *store.UpsertUserProfile) (*store.UserProfile, error) {
	stmt := `
		INSERT INTO user_profile (user_id, role, company, interests, goals, experience)
		VALUES (` + placeholders(6) + `)
		ON CONFLICT (user_id) DO UPDATE SET
			role = EXCLUDED.role,
			company = EXCLUDED.company,
			interests = EXCLUDED.interests,
			goals = EXCLUDED.goals,
			experience = EXCLUDED.experience,
			updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT
		RETURNING updated_ts`
	profile := &store.UserProfile{
		UserID:     upsert.UserID,
		Role:       upsert.Role,
		Company:    upsert.Company,
		Interests:  upsert.Interests,
		Goals:      upsert.Goals,
		Experience: upsert.Experience,
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.Role,
		upsert.Company,
		joinTags(upsert.Interests),
		joinTags(upsert.Goals),
		upsert.Experience,
	).Scan(&profile.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert user profile")
	}
	return profile, nil
}

func (d *DB) GetUserProfile(ctx context.Context, find *store.FindUserProfile) (*store.UserProfile, error) {
	query := `
		SELECT user_id, role, company, interests, goals, experience, updated_ts
		FROM user_profile
		WHERE user_id = ` + placeholder(1)
	profile := &store.UserProfile{}
	var interests, goals string
	err := d.db.QueryRowContext(ctx, query, find.UserID).Scan(
		&profile.UserID,
		&profile.Role,
		&profile.Company,
		&interests,
		&goals,
		&profile.Experience,
		&profile.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}
	profile.Interests = splitTags(interests)
	profile.Goals = splitTags(goals)
	return profile, nil
}
