package repository

import (
	"context"

	"github.com/devconnector/devconnector/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ProfileRepository persists profiles and their sub-entries.
type ProfileRepository interface {
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
	GetProfileByUser(ctx context.Context, userID string) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	DeleteProfileByUser(ctx context.Context, userID string) error
	AddExperience(ctx context.Context, userID string, exp *domain.Experience) error
	RemoveExperience(ctx context.Context, userID, expID string) error
	AddEducation(ctx context.Context, userID string, edu *domain.Education) error
	RemoveEducation(ctx context.Context, userID, eduID string) error
}

// PostRepository persists posts, likes and comments.
type PostRepository interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPostByID(ctx context.Context, postID string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	DeletePost(ctx context.Context, postID string) error
	DeletePostsByUser(ctx context.Context, userID string) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	ListLikes(ctx context.Context, postID string) ([]domain.Like, error)
	AddComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
}
