package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"blog-service/internal/auth"
	"blog-service/internal/repository"
	"blog-service/internal/repository/sqlite"
)

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		now:  time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		step: time.Millisecond,
	}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func newTestHasher(t *testing.T) *auth.Hasher {
	t.Helper()
	hasher, err := auth.NewHasher(auth.ArgonParams{Time: 1, Memory: 64, Threads: 1})
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	return hasher
}

func newSQLiteRepos(t *testing.T) (repository.UserRepository, repository.PostRepository) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	posts := sqlite.NewPostRepository(db)
	if err := users.Init(context.Background()); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := posts.Init(context.Background()); err != nil {
		t.Fatalf("init posts: %v", err)
	}
	return users, posts
}

type testServices struct {
	users UserService
	posts PostService
	clock *stepClock
}

func newTestServices(t *testing.T) testServices {
	t.Helper()
	userRepo, postRepo := newSQLiteRepos(t)
	clock := newStepClock()
	return testServices{
		users: NewUserService(userRepo, newTestHasher(t), WithClock(clock.Now)),
		posts: NewPostService(postRepo, WithClock(clock.Now)),
		clock: clock,
	}
}
