package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/devlink-social/apiserver/types"
)

// ProfileRepository handles persistence for profiles. Skills, experience,
// education, and social links live in JSON columns so the ordered-list
// semantics of the API map directly onto what is stored.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, company, website, location, status, bio, github_username, skills, experience, education, social, created_at, updated_at`

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int) (types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

func (r *ProfileRepository) List(ctx context.Context) ([]types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []types.Profile
	for rows.Next() {
		profile, err := scanProfileRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert creates the profile for profile.UserID or replaces it if one
// already exists. Experience and education are persisted as given, so the
// caller controls entry order.
func (r *ProfileRepository) Upsert(ctx context.Context, profile types.Profile) (types.Profile, error) {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	skillsJSON, err := json.Marshal(profile.Skills)
	if err != nil {
		return types.Profile{}, err
	}
	experienceJSON, err := json.Marshal(profile.Experience)
	if err != nil {
		return types.Profile{}, err
	}
	educationJSON, err := json.Marshal(profile.Education)
	if err != nil {
		return types.Profile{}, err
	}
	socialJSON, err := json.Marshal(profile.Social)
	if err != nil {
		return types.Profile{}, err
	}

	const query = `
		INSERT INTO profiles (user_id, company, website, location, status, bio, github_username, skills, experience, education, social, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE
		SET company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			bio = EXCLUDED.bio,
			github_username = EXCLUDED.github_username,
			skills = EXCLUDED.skills,
			experience = EXCLUDED.experience,
			education = EXCLUDED.education,
			social = EXCLUDED.social,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Status,
		profile.Bio,
		profile.GithubUsername,
		skillsJSON,
		experienceJSON,
		educationJSON,
		socialJSON,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID, &profile.CreatedAt); err != nil {
		return types.Profile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID int) error {
	const query = `DELETE FROM profiles WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row *sql.Row) (types.Profile, error) {
	profile, err := scanProfileRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	return profile, nil
}

func scanProfileRow(row rowScanner) (types.Profile, error) {
	var profile types.Profile
	var skillsJSON, experienceJSON, educationJSON, socialJSON []byte
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Company,
		&profile.Website,
		&profile.Location,
		&profile.Status,
		&profile.Bio,
		&profile.GithubUsername,
		&skillsJSON,
		&experienceJSON,
		&educationJSON,
		&socialJSON,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return types.Profile{}, err
	}

	_ = json.Unmarshal(skillsJSON, &profile.Skills)
	_ = json.Unmarshal(experienceJSON, &profile.Experience)
	_ = json.Unmarshal(educationJSON, &profile.Education)
	_ = json.Unmarshal(socialJSON, &profile.Social)
	return profile, nil
}
