package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/devconnector/devconnector/internal/domain"
	"github.com/devconnector/devconnector/internal/repository"
)

const profileSelect = `SELECT p.id, p.user_id, u.name, u.avatar, p.company, p.website, p.location,
		p.status, p.skills, p.bio, p.github_username,
		p.youtube, p.twitter, p.facebook, p.linkedin, p.instagram,
		p.created_at, p.updated_at
	FROM profiles p
	INNER JOIN users u ON u.id = p.user_id`

// UpsertProfile creates or replaces the profile owned by profile.UserID.
func (r *Repository) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	const query = `INSERT INTO profiles (id, user_id, company, website, location, status, skills, bio,
			github_username, youtube, twitter, facebook, linkedin, instagram, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
		ON CONFLICT (user_id) DO UPDATE SET
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			bio = EXCLUDED.bio,
			github_username = EXCLUDED.github_username,
			youtube = EXCLUDED.youtube,
			twitter = EXCLUDED.twitter,
			facebook = EXCLUDED.facebook,
			linkedin = EXCLUDED.linkedin,
			instagram = EXCLUDED.instagram,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		profile.ID, profile.UserID, profile.Company, profile.Website, profile.Location,
		profile.Status, profile.Skills, profile.Bio, profile.GithubUsername,
		profile.Social.Youtube, profile.Social.Twitter, profile.Social.Facebook,
		profile.Social.Linkedin, profile.Social.Instagram, profile.UpdatedAt.UTC())
	return err
}

// GetProfileByUser returns the profile owned by userID with its entries.
func (r *Repository) GetProfileByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1`, userID)
	profile, err := scanProfile(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadProfileEntries(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProfiles returns all profiles ordered by most recently updated.
func (r *Repository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, profileSelect+` ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]domain.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range profiles {
		if err := r.loadProfileEntries(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// DeleteProfileByUser removes the profile owned by userID. Entries cascade.
func (r *Repository) DeleteProfileByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM profiles WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// AddExperience attaches a work history entry to the user's profile.
func (r *Repository) AddExperience(ctx context.Context, userID string, exp *domain.Experience) error {
	const query = `INSERT INTO profile_experience (id, profile_id, title, company, location, from_date, to_date, current, description)
		SELECT $2, p.id, $3, $4, $5, $6, $7, $8, $9 FROM profiles p WHERE p.user_id = $1`
	tag, err := r.pool.Exec(ctx, query, userID, exp.ID, exp.Title, exp.Company, exp.Location,
		exp.From.UTC(), nullableTime(exp.To), exp.Current, exp.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemoveExperience deletes an entry from the user's own profile.
func (r *Repository) RemoveExperience(ctx context.Context, userID, expID string) error {
	const query = `DELETE FROM profile_experience e
		USING profiles p
		WHERE e.profile_id = p.id AND p.user_id = $1 AND e.id = $2`
	tag, err := r.pool.Exec(ctx, query, userID, expID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddEducation attaches a schooling entry to the user's profile.
func (r *Repository) AddEducation(ctx context.Context, userID string, edu *domain.Education) error {
	const query = `INSERT INTO profile_education (id, profile_id, school, degree, field_of_study, from_date, to_date, current, description)
		SELECT $2, p.id, $3, $4, $5, $6, $7, $8, $9 FROM profiles p WHERE p.user_id = $1`
	tag, err := r.pool.Exec(ctx, query, userID, edu.ID, edu.School, edu.Degree, edu.FieldOfStudy,
		edu.From.UTC(), nullableTime(edu.To), edu.Current, edu.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemoveEducation deletes an entry from the user's own profile.
func (r *Repository) RemoveEducation(ctx context.Context, userID, eduID string) error {
	const query = `DELETE FROM profile_education e
		USING profiles p
		WHERE e.profile_id = p.id AND p.user_id = $1 AND e.id = $2`
	tag, err := r.pool.Exec(ctx, query, userID, eduID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Repository) loadProfileEntries(ctx context.Context, profile *domain.Profile) error {
	const expQuery = `SELECT id, title, company, location, from_date, to_date, current, description
		FROM profile_experience WHERE profile_id = $1 ORDER BY from_date DESC`
	rows, err := r.pool.Query(ctx, expQuery, profile.ID)
	if err != nil {
		return err
	}
	profile.Experience = make([]domain.Experience, 0)
	for rows.Next() {
		var (
			exp domain.Experience
			to  sql.NullTime
		)
		if err := rows.Scan(&exp.ID, &exp.Title, &exp.Company, &exp.Location, &exp.From, &to, &exp.Current, &exp.Description); err != nil {
			rows.Close()
			return err
		}
		if to.Valid {
			value := to.Time.UTC()
			exp.To = &value
		}
		profile.Experience = append(profile.Experience, exp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	const eduQuery = `SELECT id, school, degree, field_of_study, from_date, to_date, current, description
		FROM profile_education WHERE profile_id = $1 ORDER BY from_date DESC`
	rows, err = r.pool.Query(ctx, eduQuery, profile.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	profile.Education = make([]domain.Education, 0)
	for rows.Next() {
		var (
			edu domain.Education
			to  sql.NullTime
		)
		if err := rows.Scan(&edu.ID, &edu.School, &edu.Degree, &edu.FieldOfStudy, &edu.From, &to, &edu.Current, &edu.Description); err != nil {
			return err
		}
		if to.Valid {
			value := to.Time.UTC()
			edu.To = &value
		}
		profile.Education = append(profile.Education, edu)
	}
	return rows.Err()
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.UserName, &p.UserAvatar, &p.Company, &p.Website, &p.Location,
		&p.Status, &p.Skills, &p.Bio, &p.GithubUsername,
		&p.Social.Youtube, &p.Social.Twitter, &p.Social.Facebook, &p.Social.Linkedin, &p.Social.Instagram,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
