package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a text entry owned by exactly one User.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostUpdate carries the fields a caller wants to change. Nil fields are left
// untouched.
type PostUpdate struct {
	Title   *string
	Content *string
}

// PostFilter narrows a post listing. A zero Limit returns every match.
type PostFilter struct {
	AuthorID *uuid.UUID
	Limit    int
	Offset   int
}
