package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blog-service/internal/domain"
)

// PostRepository exposes persistence operations for posts. Update and Delete
// are conditioned on the author so ownership is checked by the same statement
// that writes the row.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Update(ctx context.Context, authorID, id uuid.UUID, update domain.PostUpdate, updatedAt time.Time) (*domain.Post, error)
	Delete(ctx context.Context, authorID, id uuid.UUID) error
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
}
