package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-service/internal/domain"
	"blog-service/internal/repository"
)

var createPostsSchema = []string{
	`
CREATE TABLE IF NOT EXISTS posts (
	id UUID PRIMARY KEY,
	author_id UUID NOT NULL,
	title TEXT NOT NULL CHECK (length(trim(title)) > 0),
	content TEXT NOT NULL CHECK (length(trim(content)) > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT posts_author_id_fkey FOREIGN KEY (author_id) REFERENCES users (id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts (author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author_created_at ON posts (author_id, created_at DESC)`,
}

const postColumns = `id, author_id, title, content, created_at, updated_at`

type PostRepository struct {
	db querier
}

func NewPostRepository(pool *pgxpool.Pool) repository.PostRepository {
	return &PostRepository{db: pool}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if err := execAll(ctx, r.db, createPostsSchema...); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO posts (`+postColumns+`)
VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return translateError("insert post", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *PostRepository) Update(ctx context.Context, authorID, id uuid.UUID, update domain.PostUpdate, updatedAt time.Time) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `
UPDATE posts
SET title = COALESCE($1, title),
	content = COALESCE($2, content),
	updated_at = $3
WHERE id = $4 AND author_id = $5
RETURNING `+postColumns,
		update.Title,
		update.Content,
		updatedAt,
		id,
		authorID,
	)
	post, err := scanPost(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, r.ownershipError(ctx, authorID, id)
	}
	return post, err
}

func (r *PostRepository) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return translateError("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return r.ownershipError(ctx, authorID, id)
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT ` + postColumns + ` FROM posts`)
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		fmt.Fprintf(&query, ` WHERE author_id = $%d`, len(args))
	}
	query.WriteString(` ORDER BY created_at DESC, id DESC`)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, ` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&query, ` OFFSET $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, translateError("list posts", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("iterate posts", err)
	}
	return posts, nil
}

// ownershipError runs after a conditional write matched no row and reports
// whether the post is missing or owned by someone else.
func (r *PostRepository) ownershipError(ctx context.Context, authorID, id uuid.UUID) error {
	var owner uuid.UUID
	if err := r.db.QueryRow(ctx, `SELECT author_id FROM posts WHERE id = $1`, id).Scan(&owner); err != nil {
		return translateError("probe post owner", err)
	}
	if owner != authorID {
		return domain.ErrForbidden
	}
	return domain.ErrNotFound
}

func scanPost(row interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, translateError("scan post", err)
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	return &post, nil
}
