package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/devconnector/devconnector/internal/domain"
	"github.com/devconnector/devconnector/internal/repository"
	"github.com/devconnector/devconnector/internal/validate"
)

type stubProfileRepository struct {
	profiles    map[string]*domain.Profile
	experiences map[string][]domain.Experience
	educations  map[string][]domain.Education
}

func newStubProfileRepository() *stubProfileRepository {
	return &stubProfileRepository{
		profiles:    make(map[string]*domain.Profile),
		experiences: make(map[string][]domain.Experience),
		educations:  make(map[string][]domain.Education),
	}
}

func (s *stubProfileRepository) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *stubProfileRepository) GetProfileByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	copied.Experience = append([]domain.Experience(nil), s.experiences[userID]...)
	copied.Education = append([]domain.Education(nil), s.educations[userID]...)
	return &copied, nil
}

func (s *stubProfileRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProfileRepository) DeleteProfileByUser(ctx context.Context, userID string) error {
	delete(s.profiles, userID)
	return nil
}

func (s *stubProfileRepository) AddExperience(ctx context.Context, userID string, exp *domain.Experience) error {
	if _, ok := s.profiles[userID]; !ok {
		return repository.ErrNotFound
	}
	s.experiences[userID] = append(s.experiences[userID], *exp)
	return nil
}

func (s *stubProfileRepository) RemoveExperience(ctx context.Context, userID, expID string) error {
	entries := s.experiences[userID]
	for i, e := range entries {
		if e.ID == expID {
			s.experiences[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubProfileRepository) AddEducation(ctx context.Context, userID string, edu *domain.Education) error {
	if _, ok := s.profiles[userID]; !ok {
		return repository.ErrNotFound
	}
	s.educations[userID] = append(s.educations[userID], *edu)
	return nil
}

func (s *stubProfileRepository) RemoveEducation(ctx context.Context, userID, eduID string) error {
	entries := s.educations[userID]
	for i, e := range entries {
		if e.ID == eduID {
			s.educations[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type cascadeRecorder struct {
	order []string
}

func (c *cascadeRecorder) DeletePostsByUser(ctx context.Context, userID string) error {
	c.order = append(c.order, "posts")
	return nil
}

// Remaining PostRepository methods are unused by the profile service.
func (c *cascadeRecorder) CreatePost(ctx context.Context, post *domain.Post) error { return nil }
func (c *cascadeRecorder) GetPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	return nil, repository.ErrNotFound
}
func (c *cascadeRecorder) ListPosts(ctx context.Context) ([]domain.Post, error) { return nil, nil }
func (c *cascadeRecorder) DeletePost(ctx context.Context, postID string) error  { return nil }
func (c *cascadeRecorder) AddLike(ctx context.Context, postID, userID string) error {
	return nil
}
func (c *cascadeRecorder) RemoveLike(ctx context.Context, postID, userID string) error { return nil }
func (c *cascadeRecorder) ListLikes(ctx context.Context, postID string) ([]domain.Like, error) {
	return nil, nil
}
func (c *cascadeRecorder) AddComment(ctx context.Context, comment *domain.Comment) error { return nil }
func (c *cascadeRecorder) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	return nil, repository.ErrNotFound
}
func (c *cascadeRecorder) DeleteComment(ctx context.Context, postID, commentID string) error {
	return nil
}
func (c *cascadeRecorder) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	return nil, nil
}

type cascadeProfiles struct {
	*stubProfileRepository
	recorder *cascadeRecorder
}

func (c cascadeProfiles) DeleteProfileByUser(ctx context.Context, userID string) error {
	c.recorder.order = append(c.recorder.order, "profile")
	return c.stubProfileRepository.DeleteProfileByUser(ctx, userID)
}

type cascadeUsers struct {
	recorder *cascadeRecorder
}

func (c cascadeUsers) CreateUser(ctx context.Context, user *domain.User) error { return nil }
func (c cascadeUsers) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}
func (c cascadeUsers) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}
func (c cascadeUsers) DeleteUser(ctx context.Context, id string) error {
	c.recorder.order = append(c.recorder.order, "user")
	return nil
}

func testService(repo *stubProfileRepository) Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, &cascadeRecorder{}, cascadeUsers{recorder: &cascadeRecorder{}}, log)
}

func TestUpsertRequiresStatusAndSkills(t *testing.T) {
	svc := testService(newStubProfileRepository())

	_, err := svc.Upsert(context.Background(), "user-1", UpsertInput{Skills: "go"})
	var verrs validate.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors for missing status, got %v", err)
	}

	_, err = svc.Upsert(context.Background(), "user-1", UpsertInput{Status: "Developer", Skills: " , , "})
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors for empty skills, got %v", err)
	}
}

func TestUpsertSplitsSkills(t *testing.T) {
	repo := newStubProfileRepository()
	svc := testService(repo)

	saved, err := svc.Upsert(context.Background(), "user-1", UpsertInput{
		Status: "Developer",
		Skills: " Go, SQL ,,  HTTP ",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := []string{"Go", "SQL", "HTTP"}
	if len(saved.Skills) != len(want) {
		t.Fatalf("expected %d skills, got %v", len(want), saved.Skills)
	}
	for i, skill := range want {
		if saved.Skills[i] != skill {
			t.Fatalf("skill %d = %q, want %q", i, saved.Skills[i], skill)
		}
	}
}

func TestGetMissingProfile(t *testing.T) {
	svc := testService(newStubProfileRepository())
	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestAddExperienceValidation(t *testing.T) {
	repo := newStubProfileRepository()
	svc := testService(repo)
	if _, err := svc.Upsert(context.Background(), "user-1", UpsertInput{Status: "Dev", Skills: "go"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	_, err := svc.AddExperience(context.Background(), "user-1", ExperienceInput{Location: "Remote"})
	var verrs validate.Errors
	if !errors.As(err, &verrs) || len(verrs) != 3 {
		t.Fatalf("expected title/company/from validation errors, got %v", err)
	}

	prof, err := svc.AddExperience(context.Background(), "user-1", ExperienceInput{
		Title:   "Engineer",
		Company: "Acme",
		From:    "2020-05-01",
		Current: true,
	})
	if err != nil {
		t.Fatalf("add experience: %v", err)
	}
	if len(prof.Experience) != 1 || prof.Experience[0].Title != "Engineer" {
		t.Fatalf("unexpected experience list: %+v", prof.Experience)
	}
}

func TestRemoveExperienceMissingEntry(t *testing.T) {
	repo := newStubProfileRepository()
	svc := testService(repo)
	if _, err := svc.Upsert(context.Background(), "user-1", UpsertInput{Status: "Dev", Skills: "go"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.RemoveExperience(context.Background(), "user-1", "no-such-id"); !errors.Is(err, ErrNoSuchEntity) {
		t.Fatalf("expected ErrNoSuchEntity, got %v", err)
	}
}

func TestAddEducationValidation(t *testing.T) {
	repo := newStubProfileRepository()
	svc := testService(repo)
	if _, err := svc.Upsert(context.Background(), "user-1", UpsertInput{Status: "Dev", Skills: "go"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	_, err := svc.AddEducation(context.Background(), "user-1", EducationInput{})
	var verrs validate.Errors
	if !errors.As(err, &verrs) || len(verrs) != 4 {
		t.Fatalf("expected school/degree/field/from validation errors, got %v", err)
	}
}

func TestDeleteAccountCascadeOrder(t *testing.T) {
	recorder := &cascadeRecorder{}
	repo := newStubProfileRepository()
	repo.profiles["user-1"] = &domain.Profile{ID: "p1", UserID: "user-1"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(cascadeProfiles{stubProfileRepository: repo, recorder: recorder}, recorder, cascadeUsers{recorder: recorder}, log)

	if err := svc.DeleteAccount(context.Background(), "user-1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	want := []string{"posts", "profile", "user"}
	if len(recorder.order) != len(want) {
		t.Fatalf("cascade order %v, want %v", recorder.order, want)
	}
	for i, step := range want {
		if recorder.order[i] != step {
			t.Fatalf("cascade order %v, want %v", recorder.order, want)
		}
	}
}
