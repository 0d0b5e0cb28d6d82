package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/devconnector/devconnector/internal/domain"
	"github.com/devconnector/devconnector/internal/repository"
)

// CreatePost inserts a post.
func (r *Repository) CreatePost(ctx context.Context, post *domain.Post) error {
	const query = `INSERT INTO posts (id, user_id, text, name, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query, post.ID, post.UserID, post.Text, post.Name, post.Avatar, post.CreatedAt)
	return err
}

// GetPostByID fetches a post with its likes and comments.
func (r *Repository) GetPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	const query = `SELECT id, user_id, text, name, avatar, created_at FROM posts WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, postID)
	var p domain.Post
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	likes, err := r.ListLikes(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Likes = likes
	comments, err := r.ListComments(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return &p, nil
}

// ListPosts returns all posts, newest first, with likes and comments.
func (r *Repository) ListPosts(ctx context.Context) ([]domain.Post, error) {
	const query = `SELECT id, user_id, text, name, avatar, created_at FROM posts ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		likes, err := r.ListLikes(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Likes = likes
		comments, err := r.ListComments(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Comments = comments
	}
	return posts, nil
}

// DeletePost removes a post. Likes and comments cascade.
func (r *Repository) DeletePost(ctx context.Context, postID string) error {
	const query = `DELETE FROM posts WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeletePostsByUser removes every post owned by userID.
func (r *Repository) DeletePostsByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM posts WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// AddLike records a like. A repeated like by the same user maps to ErrConflict.
func (r *Repository) AddLike(ctx context.Context, postID, userID string) error {
	const query = `INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, NOW())`
	_, err := r.pool.Exec(ctx, query, postID, userID)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// RemoveLike deletes a like; ErrNotFound when the user had not liked the post.
func (r *Repository) RemoveLike(ctx context.Context, postID, userID string) error {
	const query = `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, postID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListLikes returns likes on a post, newest first.
func (r *Repository) ListLikes(ctx context.Context, postID string) ([]domain.Like, error) {
	const query = `SELECT user_id, created_at FROM post_likes WHERE post_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := make([]domain.Like, 0)
	for rows.Next() {
		var like domain.Like
		if err := rows.Scan(&like.UserID, &like.CreatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, like)
	}
	return likes, rows.Err()
}

// AddComment attaches a comment to a post.
func (r *Repository) AddComment(ctx context.Context, comment *domain.Comment) error {
	const query = `INSERT INTO post_comments (id, post_id, user_id, text, name, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query, comment.ID, comment.PostID, comment.UserID,
		comment.Text, comment.Name, comment.Avatar, comment.CreatedAt)
	return err
}

// GetComment fetches a single comment on a post.
func (r *Repository) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	const query = `SELECT id, post_id, user_id, text, name, avatar, created_at
		FROM post_comments WHERE post_id = $1 AND id = $2`
	row := r.pool.QueryRow(ctx, query, postID, commentID)
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment from a post.
func (r *Repository) DeleteComment(ctx context.Context, postID, commentID string) error {
	const query = `DELETE FROM post_comments WHERE post_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, postID, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListComments returns comments on a post, newest first.
func (r *Repository) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	const query = `SELECT id, post_id, user_id, text, name, avatar, created_at
		FROM post_comments WHERE post_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
