package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-service/internal/domain"
	"blog-service/internal/repository"
)

// PostService coordinates post operations for an authenticated author.
type PostService interface {
	Create(ctx context.Context, authorID uuid.UUID, title, content string) (*domain.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Update(ctx context.Context, authorID, id uuid.UUID, update domain.PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, authorID, id uuid.UUID) error
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
}

type postService struct {
	posts repository.PostRepository
	opts  options
}

func NewPostService(posts repository.PostRepository, opts ...Option) PostService {
	return &postService{
		posts: posts,
		opts:  buildOptions(opts),
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, title, content string) (*domain.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	now := s.opts.now()
	post := &domain.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.opts.logger.WithFields(logrus.Fields{
		"post_id":   post.ID,
		"author_id": authorID,
	}).Info("post created")
	return post, nil
}

func (s *postService) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return s.posts.Get(ctx, id)
}

func (s *postService) Update(ctx context.Context, authorID, id uuid.UUID, update domain.PostUpdate) (*domain.Post, error) {
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be blank", domain.ErrInvalidInput)
		}
		update.Title = &title
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		return nil, fmt.Errorf("%w: content must not be blank", domain.ErrInvalidInput)
	}

	post, err := s.posts.Update(ctx, authorID, id, update, s.opts.now())
	if err != nil {
		return nil, err
	}

	s.opts.logger.WithFields(logrus.Fields{
		"post_id":   id,
		"author_id": authorID,
	}).Info("post updated")
	return post, nil
}

func (s *postService) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	if err := s.posts.Delete(ctx, authorID, id); err != nil {
		return err
	}

	s.opts.logger.WithFields(logrus.Fields{
		"post_id":   id,
		"author_id": authorID,
	}).Info("post deleted")
	return nil
}

func (s *postService) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidInput)
	}
	return s.posts.List(ctx, filter)
}
