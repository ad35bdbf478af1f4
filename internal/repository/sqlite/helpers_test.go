package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"blog-service/internal/domain"
	"blog-service/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRepos(t *testing.T) (repository.UserRepository, repository.PostRepository) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	if err := users.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := posts.Init(ctx); err != nil {
		t.Fatalf("init posts: %v", err)
	}
	return users, posts
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mustCreateUser(t *testing.T, users repository.UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$a2V5",
		CreatedAt:    baseTime,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func mustCreatePost(t *testing.T, posts repository.PostRepository, authorID uuid.UUID, title string, at time.Time) *domain.Post {
	t.Helper()
	post := &domain.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Content:   "content of " + title,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := posts.Create(context.Background(), post); err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return post
}
