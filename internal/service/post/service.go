package post

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/devconnector/devconnector/internal/domain"
	"github.com/devconnector/devconnector/internal/repository"
	"github.com/devconnector/devconnector/internal/validate"
	"github.com/devconnector/devconnector/internal/ws"
)

// FeedTopic is the hub topic new posts and comments are broadcast on.
const FeedTopic = "feed"

var (
	// ErrPostNotFound is returned for absent or malformed post ids.
	ErrPostNotFound = errors.New("Post not found")
	// ErrNotPostOwner rejects a delete attempted by a non-owner.
	ErrNotPostOwner = errors.New("User not authorized to delete post")
	// ErrAlreadyLiked rejects a second like from the same user.
	ErrAlreadyLiked = errors.New("This post is already liked")
	// ErrNotYetLiked rejects an unlike without a prior like.
	ErrNotYetLiked = errors.New("Post has not yet been liked")
	// ErrCommentNotFound is returned for absent comment ids.
	ErrCommentNotFound = errors.New("Comment does not exist")
	// ErrNotCommentOwner rejects a comment delete attempted by a non-owner.
	ErrNotCommentOwner = errors.New("User is not authorized to delete comment")
)

// Service orchestrates posts, likes and comments.
type Service struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	hub    *ws.Hub
	logger *slog.Logger
}

// New returns a post service. hub may be nil in tests.
func New(posts repository.PostRepository, users repository.UserRepository, hub *ws.Hub, logger *slog.Logger) Service {
	return Service{posts: posts, users: users, hub: hub, logger: logger}
}

// Create stores a new post owned by userID. The author's name and avatar are
// snapshotted onto the post at creation time.
func (s Service) Create(ctx context.Context, userID, text string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validate.Errors{}.Add("Text is required")
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	post := &domain.Post{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Likes:     []domain.Like{},
		Comments:  []domain.Comment{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("post created", "post_id", post.ID, "user_id", user.ID)
	s.broadcast("post", post)
	return post, nil
}

// List returns all posts, newest first.
func (s Service) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.ListPosts(ctx)
}

// Get returns a post by identifier.
func (s Service) Get(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.posts.GetPostByID(ctx, strings.TrimSpace(postID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// Delete removes a post after verifying the caller owns it.
func (s Service) Delete(ctx context.Context, postID, userID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !domain.CheckOwner(post.UserID, userID) {
		return ErrNotPostOwner
	}
	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	s.logger.Info("post deleted", "post_id", post.ID, "user_id", userID)
	return nil
}

// Like records that userID liked a post and returns the updated likes.
func (s Service) Like(ctx context.Context, postID, userID string) ([]domain.Like, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.posts.AddLike(ctx, post.ID, userID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return s.posts.ListLikes(ctx, post.ID)
}

// Unlike removes userID's like and returns the updated likes.
func (s Service) Unlike(ctx context.Context, postID, userID string) ([]domain.Like, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.posts.RemoveLike(ctx, post.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotYetLiked
		}
		return nil, err
	}
	return s.posts.ListLikes(ctx, post.ID)
}

// AddComment attaches a comment to a post and returns the updated comments.
func (s Service) AddComment(ctx context.Context, postID, userID, text string) ([]domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validate.Errors{}.Add("Text is required")
	}
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    user.ID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	s.broadcast("comment", comment)
	return s.posts.ListComments(ctx, post.ID)
}

// DeleteComment removes a comment after verifying the caller owns it and
// returns the remaining comments.
func (s Service) DeleteComment(ctx context.Context, postID, commentID, userID string) ([]domain.Comment, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment, err := s.posts.GetComment(ctx, post.ID, strings.TrimSpace(commentID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if !domain.CheckOwner(comment.UserID, userID) {
		return nil, ErrNotCommentOwner
	}
	if err := s.posts.DeleteComment(ctx, post.ID, comment.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.posts.ListComments(ctx, post.ID)
}

func (s Service) broadcast(event string, payload any) {
	if s.hub == nil {
		return
	}
	body, err := json.Marshal(map[string]any{"event": event, "data": payload})
	if err != nil {
		s.logger.Warn("feed payload marshal failed", "error", err)
		return
	}
	s.hub.Broadcast(FeedTopic, body)
}
