package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"blog-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func registerUser(t *testing.T, svc testServices, name string) *domain.User {
	t.Helper()
	user, err := svc.users.Register(context.Background(), name, name+"@x.com", "pw123")
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return user
}

func TestPostService_Example(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")
	bob := registerUser(t, svc, "bob")

	post, err := svc.posts.Create(ctx, alice.ID, "Hi", "World")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if post.AuthorID != alice.ID {
		t.Fatalf("expected author %s, got %s", alice.ID, post.AuthorID)
	}

	updated, err := svc.posts.Update(ctx, alice.ID, post.ID, domain.PostUpdate{Title: strPtr("Hi2")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Hi2" || updated.Content != "World" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.posts.Update(ctx, bob.ID, post.ID, domain.PostUpdate{Title: strPtr("Mine now")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPostService_CreateGetRoundTrip(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")

	created, err := svc.posts.Create(ctx, alice.ID, "  Title  ", "  body keeps its spacing\n")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("created_at and updated_at differ on creation: %v vs %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := svc.posts.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "Title" || got.Content != "  body keeps its spacing\n" {
		t.Fatalf("unexpected round trip: %q / %q", got.Title, got.Content)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) || !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("timestamps changed on read: %+v vs %+v", got, created)
	}

	if _, err := svc.posts.Get(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostService_CreateValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")

	if _, err := svc.posts.Create(ctx, alice.ID, " ", "body"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank title, got %v", err)
	}
	if _, err := svc.posts.Create(ctx, alice.ID, "title", "\n\t"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank content, got %v", err)
	}
	if _, err := svc.posts.Create(ctx, uuid.New(), "title", "body"); !errors.Is(err, domain.ErrAuthorNotFound) {
		t.Fatalf("expected ErrAuthorNotFound, got %v", err)
	}
}

func TestPostService_UpdateAdvancesUpdatedAt(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")

	created, err := svc.posts.Create(ctx, alice.ID, "Title", "Body")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.posts.Update(ctx, alice.ID, created.ID, domain.PostUpdate{Content: strPtr("New body")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.Title != "Title" || updated.Content != "New body" {
		t.Fatalf("unexpected fields: %+v", updated)
	}

	// an empty update still counts as a mutation
	touched, err := svc.posts.Update(ctx, alice.ID, created.ID, domain.PostUpdate{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !touched.UpdatedAt.After(updated.UpdatedAt) {
		t.Fatalf("updated_at did not advance on empty update")
	}
}

func TestPostService_UpdateValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")
	post, err := svc.posts.Create(ctx, alice.ID, "Title", "Body")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.posts.Update(ctx, alice.ID, post.ID, domain.PostUpdate{Title: strPtr("  ")}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.posts.Update(ctx, alice.ID, post.ID, domain.PostUpdate{Content: strPtr("")}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	got, err := svc.posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !got.UpdatedAt.Equal(post.UpdatedAt) {
		t.Fatalf("rejected update must not touch the row")
	}
}

func TestPostService_OwnershipOnMutation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")
	bob := registerUser(t, svc, "bob")
	post, err := svc.posts.Create(ctx, alice.ID, "Title", "Body")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.posts.Delete(ctx, bob.ID, post.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.posts.Update(ctx, bob.ID, uuid.New(), domain.PostUpdate{Title: strPtr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.posts.Delete(ctx, bob.ID, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.posts.Delete(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.posts.Get(ctx, post.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostService_List(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	empty, err := svc.posts.List(ctx, domain.PostFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}

	alice := registerUser(t, svc, "alice")
	bob := registerUser(t, svc, "bob")
	var aliceIDs []uuid.UUID
	for i, author := range []*domain.User{alice, bob, alice, bob, alice} {
		post, err := svc.posts.Create(ctx, author.ID, "post", "body")
		if err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
		if author.ID == alice.ID {
			aliceIDs = append(aliceIDs, post.ID)
		}
	}

	mine, err := svc.posts.List(ctx, domain.PostFilter{AuthorID: &alice.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(mine) != len(aliceIDs) {
		t.Fatalf("expected %d posts, got %d", len(aliceIDs), len(mine))
	}
	for i, post := range mine {
		if post.AuthorID != alice.ID {
			t.Fatalf("listing leaked post of %s", post.AuthorID)
		}
		if want := aliceIDs[len(aliceIDs)-1-i]; post.ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, post.ID)
		}
		if i > 0 && !post.CreatedAt.Before(mine[i-1].CreatedAt) {
			t.Fatalf("listing not strictly newest first at %d", i)
		}
	}

	all, err := svc.posts.List(ctx, domain.PostFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected page of 2, got %d", len(all))
	}

	if _, err := svc.posts.List(ctx, domain.PostFilter{Limit: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative limit, got %v", err)
	}
}
