package post

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/devconnector/devconnector/internal/domain"
	"github.com/devconnector/devconnector/internal/repository"
	"github.com/devconnector/devconnector/internal/validate"
	"github.com/devconnector/devconnector/internal/ws"
)

type memoryStore struct {
	users    map[string]*domain.User
	posts    map[string]*domain.Post
	likes    map[string][]domain.Like
	comments map[string][]domain.Comment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]*domain.User),
		posts:    make(map[string]*domain.Post),
		likes:    make(map[string][]domain.Like),
		comments: make(map[string][]domain.Comment),
	}
}

func (m *memoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) DeleteUser(ctx context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *memoryStore) CreatePost(ctx context.Context, post *domain.Post) error {
	m.posts[post.ID] = post
	return nil
}

func (m *memoryStore) GetPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	if p, ok := m.posts[postID]; ok {
		copied := *p
		copied.Likes = append([]domain.Like(nil), m.likes[postID]...)
		copied.Comments = append([]domain.Comment(nil), m.comments[postID]...)
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts := make([]domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (m *memoryStore) DeletePost(ctx context.Context, postID string) error {
	if _, ok := m.posts[postID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.posts, postID)
	delete(m.likes, postID)
	delete(m.comments, postID)
	return nil
}

func (m *memoryStore) DeletePostsByUser(ctx context.Context, userID string) error {
	for id, p := range m.posts {
		if p.UserID == userID {
			delete(m.posts, id)
		}
	}
	return nil
}

func (m *memoryStore) AddLike(ctx context.Context, postID, userID string) error {
	for _, like := range m.likes[postID] {
		if like.UserID == userID {
			return repository.ErrConflict
		}
	}
	m.likes[postID] = append(m.likes[postID], domain.Like{UserID: userID, CreatedAt: time.Now()})
	return nil
}

func (m *memoryStore) RemoveLike(ctx context.Context, postID, userID string) error {
	likes := m.likes[postID]
	for i, like := range likes {
		if like.UserID == userID {
			m.likes[postID] = append(likes[:i], likes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryStore) ListLikes(ctx context.Context, postID string) ([]domain.Like, error) {
	return append([]domain.Like(nil), m.likes[postID]...), nil
}

func (m *memoryStore) AddComment(ctx context.Context, comment *domain.Comment) error {
	m.comments[comment.PostID] = append(m.comments[comment.PostID], *comment)
	return nil
}

func (m *memoryStore) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	for _, c := range m.comments[postID] {
		if c.ID == commentID {
			copied := c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) DeleteComment(ctx context.Context, postID, commentID string) error {
	comments := m.comments[postID]
	for i, c := range comments {
		if c.ID == commentID {
			m.comments[postID] = append(comments[:i], comments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryStore) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	return append([]domain.Comment(nil), m.comments[postID]...), nil
}

func testSetup(t *testing.T) (*memoryStore, Service) {
	t.Helper()
	store := newMemoryStore()
	store.users["user-a"] = &domain.User{ID: "user-a", Name: "Alice", Email: "alice@example.com", Avatar: "https://example.com/a.png"}
	store.users["user-b"] = &domain.User{ID: "user-b", Name: "Bob", Email: "bob@example.com", Avatar: "https://example.com/b.png"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store, New(store, store, nil, log)
}

func TestCreateSnapshotsAuthor(t *testing.T) {
	_, svc := testSetup(t)

	created, err := svc.Create(context.Background(), "user-a", "  hello world  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UserID != "user-a" {
		t.Fatalf("owner not assigned from authenticated identity: %q", created.UserID)
	}
	if created.Text != "hello world" {
		t.Fatalf("text not trimmed: %q", created.Text)
	}
	if created.Name != "Alice" || created.Avatar != "https://example.com/a.png" {
		t.Fatalf("author snapshot missing: %+v", created)
	}
}

func TestCreateRequiresText(t *testing.T) {
	_, svc := testSetup(t)

	_, err := svc.Create(context.Background(), "user-a", "   ")
	var verrs validate.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	store, svc := testSetup(t)

	created, err := svc.Create(context.Background(), "user-a", "owned by alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, "user-b"); !errors.Is(err, ErrNotPostOwner) {
		t.Fatalf("expected ErrNotPostOwner for non-owner, got %v", err)
	}
	if _, ok := store.posts[created.ID]; !ok {
		t.Fatal("post must survive a rejected delete")
	}

	if err := svc.Delete(context.Background(), created.ID, "user-a"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := store.posts[created.ID]; ok {
		t.Fatal("post must be removed after owner delete")
	}
}

func TestDeleteMissingPost(t *testing.T) {
	_, svc := testSetup(t)
	if err := svc.Delete(context.Background(), "no-such-post", "user-a"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestLikeTwiceRejected(t *testing.T) {
	_, svc := testSetup(t)

	created, err := svc.Create(context.Background(), "user-a", "likeable")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	likes, err := svc.Like(context.Background(), created.ID, "user-b")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(likes) != 1 {
		t.Fatalf("expected one like, got %d", len(likes))
	}
	if _, err := svc.Like(context.Background(), created.ID, "user-b"); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
}

func TestUnlikeWithoutLike(t *testing.T) {
	_, svc := testSetup(t)

	created, err := svc.Create(context.Background(), "user-a", "never liked")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Unlike(context.Background(), created.ID, "user-b"); !errors.Is(err, ErrNotYetLiked) {
		t.Fatalf("expected ErrNotYetLiked, got %v", err)
	}
}

func TestUnlikeRemovesLike(t *testing.T) {
	_, svc := testSetup(t)

	created, err := svc.Create(context.Background(), "user-a", "toggle")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Like(context.Background(), created.ID, "user-b"); err != nil {
		t.Fatalf("like: %v", err)
	}
	likes, err := svc.Unlike(context.Background(), created.ID, "user-b")
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if len(likes) != 0 {
		t.Fatalf("expected no likes, got %d", len(likes))
	}
}

func TestCommentOwnershipOnDelete(t *testing.T) {
	_, svc := testSetup(t)

	created, err := svc.Create(context.Background(), "user-a", "discuss")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	comments, err := svc.AddComment(context.Background(), created.ID, "user-b", "bob's take")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(comments))
	}
	commentID := comments[0].ID

	// The post owner is not the comment owner; delete must be rejected.
	if _, err := svc.DeleteComment(context.Background(), created.ID, commentID, "user-a"); !errors.Is(err, ErrNotCommentOwner) {
		t.Fatalf("expected ErrNotCommentOwner, got %v", err)
	}
	remaining, err := svc.DeleteComment(context.Background(), created.ID, commentID, "user-b")
	if err != nil {
		t.Fatalf("owner comment delete: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected comment removed, got %d", len(remaining))
	}
}

type feedListener struct {
	ch chan []byte
}

func (f *feedListener) Send(payload []byte) error {
	f.ch <- payload
	return nil
}

func (f *feedListener) Close() {}

func (f *feedListener) frame(t *testing.T) (string, json.RawMessage) {
	t.Helper()
	select {
	case payload := <-f.ch:
		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &frame); err != nil {
			t.Fatalf("decode feed frame %q: %v", payload, err)
		}
		return frame.Event, frame.Data
	case <-time.After(2 * time.Second):
		t.Fatal("no feed frame delivered")
		return "", nil
	}
}

func TestCreateAndCommentBroadcastFeedEvents(t *testing.T) {
	store := newMemoryStore()
	store.users["user-a"] = &domain.User{ID: "user-a", Name: "Alice", Email: "alice@example.com"}
	store.users["user-b"] = &domain.User{ID: "user-b", Name: "Bob", Email: "bob@example.com"}
	hub := ws.NewHub(0)
	listener := &feedListener{ch: make(chan []byte, 4)}
	hub.Register(FeedTopic, listener)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(store, store, hub, log)

	created, err := svc.Create(context.Background(), "user-a", "streamed")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	event, data := listener.frame(t)
	if event != "post" {
		t.Fatalf("event %q, want post", event)
	}
	var streamed domain.Post
	if err := json.Unmarshal(data, &streamed); err != nil {
		t.Fatalf("decode post payload: %v", err)
	}
	if streamed.ID != created.ID || streamed.Text != "streamed" {
		t.Fatalf("unexpected post payload: %+v", streamed)
	}

	if _, err := svc.AddComment(context.Background(), created.ID, "user-b", "reply"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	event, data = listener.frame(t)
	if event != "comment" {
		t.Fatalf("event %q, want comment", event)
	}
	var reply domain.Comment
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("decode comment payload: %v", err)
	}
	if reply.PostID != created.ID || reply.UserID != "user-b" {
		t.Fatalf("unexpected comment payload: %+v", reply)
	}
}

func TestDeleteMissingComment(t *testing.T) {
	_, svc := testSetup(t)

	created, err := svc.Create(context.Background(), "user-a", "no comments")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.DeleteComment(context.Background(), created.ID, "no-such-comment", "user-a"); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}
