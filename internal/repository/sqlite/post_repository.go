package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"blog-service/internal/domain"
	"blog-service/internal/repository"
)

var createPostsSchema = []string{
	`
CREATE TABLE IF NOT EXISTS posts (
	id TEXT NOT NULL PRIMARY KEY,
	author_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	title TEXT NOT NULL CHECK (length(trim(title)) > 0),
	content TEXT NOT NULL CHECK (length(trim(content)) > 0),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts (author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author_created_at ON posts (author_id, created_at DESC)`,
}

const postColumns = `id, author_id, title, content, created_at, updated_at`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

// Init creates the posts table and its indexes. The users table must exist.
func (r *PostRepository) Init(ctx context.Context) error {
	if err := execAll(ctx, r.db, createPostsSchema...); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO posts (`+postColumns+`)
VALUES (?, ?, ?, ?, ?, ?)`,
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
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

func (r *PostRepository) Update(ctx context.Context, authorID, id uuid.UUID, update domain.PostUpdate, updatedAt time.Time) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
UPDATE posts
SET title = COALESCE(?, title),
	content = COALESCE(?, content),
	updated_at = ?
WHERE id = ? AND author_id = ?
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ? AND author_id = ?`, id, authorID)
	if err != nil {
		return translateError("delete post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateError("delete post rows affected", err)
	}
	if n == 0 {
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
		query.WriteString(` WHERE author_id = ?`)
		args = append(args, *filter.AuthorID)
	}
	query.WriteString(` ORDER BY created_at DESC, id DESC`)
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
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
	err := r.db.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = ?`, id).Scan(&owner)
	if err != nil {
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
		timestamp{&post.CreatedAt},
		timestamp{&post.UpdatedAt},
	); err != nil {
		return nil, translateError("scan post", err)
	}
	return &post, nil
}
