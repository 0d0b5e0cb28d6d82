package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/devconnector/devconnector/internal/domain"
	"github.com/devconnector/devconnector/internal/repository"
	"github.com/devconnector/devconnector/internal/validate"
)

var (
	// ErrProfileNotFound is returned when a user has no profile yet.
	ErrProfileNotFound = errors.New("Profile not found")
	// ErrNoSuchEntity is returned for a missing experience/education id.
	ErrNoSuchEntity = errors.New("No such entity")
)

// UpsertInput carries profile attributes. Skills is a comma separated list.
type UpsertInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"github_username"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// ExperienceInput carries a new work history entry. Dates are YYYY-MM-DD.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput carries a new schooling entry. Dates are YYYY-MM-DD.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// Service orchestrates profile management.
type Service struct {
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// New returns a profile service.
func New(profiles repository.ProfileRepository, posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) Service {
	return Service{profiles: profiles, posts: posts, users: users, logger: logger}
}

// Get returns the profile owned by userID.
func (s Service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetProfileByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// List returns every profile.
func (s Service) List(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.ListProfiles(ctx)
}

// Upsert creates or updates the caller's profile. Status and at least one
// skill are required; skills are comma-split and trimmed.
func (s Service) Upsert(ctx context.Context, userID string, input UpsertInput) (*domain.Profile, error) {
	var verrs validate.Errors
	status := strings.TrimSpace(input.Status)
	if status == "" {
		verrs = verrs.Add("Status is required")
	}
	skills := splitSkills(input.Skills)
	if len(skills) == 0 {
		verrs = verrs.Add("Skills is required")
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:             uuid.NewString(),
		UserID:         userID,
		Company:        strings.TrimSpace(input.Company),
		Website:        strings.TrimSpace(input.Website),
		Location:       strings.TrimSpace(input.Location),
		Status:         status,
		Skills:         skills,
		Bio:            strings.TrimSpace(input.Bio),
		GithubUsername: strings.TrimSpace(input.GithubUsername),
		Social: domain.SocialLinks{
			Youtube:   strings.TrimSpace(input.Youtube),
			Twitter:   strings.TrimSpace(input.Twitter),
			Facebook:  strings.TrimSpace(input.Facebook),
			Linkedin:  strings.TrimSpace(input.Linkedin),
			Instagram: strings.TrimSpace(input.Instagram),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile saved", "user_id", userID)
	return s.Get(ctx, userID)
}

// AddExperience prepends a validated work history entry.
func (s Service) AddExperience(ctx context.Context, userID string, input ExperienceInput) (*domain.Profile, error) {
	var verrs validate.Errors
	if strings.TrimSpace(input.Title) == "" {
		verrs = verrs.Add("Title is required")
	}
	if strings.TrimSpace(input.Company) == "" {
		verrs = verrs.Add("Company is required")
	}
	from, err := parseDate(input.From)
	if err != nil {
		verrs = verrs.Add("From date is required")
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	exp := &domain.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		From:        from,
		To:          parseOptionalDate(input.To),
		Current:     input.Current,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.profiles.AddExperience(ctx, userID, exp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveExperience deletes an entry from the caller's profile.
func (s Service) RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error) {
	if err := s.profiles.RemoveExperience(ctx, userID, strings.TrimSpace(expID)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSuchEntity
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// AddEducation prepends a validated schooling entry.
func (s Service) AddEducation(ctx context.Context, userID string, input EducationInput) (*domain.Profile, error) {
	var verrs validate.Errors
	if strings.TrimSpace(input.School) == "" {
		verrs = verrs.Add("School is required")
	}
	if strings.TrimSpace(input.Degree) == "" {
		verrs = verrs.Add("Degree is required")
	}
	if strings.TrimSpace(input.FieldOfStudy) == "" {
		verrs = verrs.Add("Field of Study is required")
	}
	from, err := parseDate(input.From)
	if err != nil {
		verrs = verrs.Add("From date is required")
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	edu := &domain.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(input.School),
		Degree:       strings.TrimSpace(input.Degree),
		FieldOfStudy: strings.TrimSpace(input.FieldOfStudy),
		From:         from,
		To:           parseOptionalDate(input.To),
		Current:      input.Current,
		Description:  strings.TrimSpace(input.Description),
	}
	if err := s.profiles.AddEducation(ctx, userID, edu); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveEducation deletes an entry from the caller's profile.
func (s Service) RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error) {
	if err := s.profiles.RemoveEducation(ctx, userID, strings.TrimSpace(eduID)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSuchEntity
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// DeleteAccount removes the user's posts, then profile, then the user record.
func (s Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.posts.DeletePostsByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.DeleteProfileByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	s.logger.Info("account deleted", "user_id", userID)
	return nil
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseOptionalDate(raw string) *time.Time {
	t, err := parseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}
