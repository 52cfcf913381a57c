package posts

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Owner is the public view of the user who created a post.
type Owner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type Post struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Excerpt    string     `json:"excerpt"`
	Content    string     `json:"content"`
	UserID     uuid.UUID  `json:"-"`
	Categories []Category `json:"categories"`
	User       Owner      `json:"user"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PostSummary is the list projection of a post. It leaves out the content
// and the owner's email.
type PostSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Categories []string  `json:"categories"`
	User       string    `json:"user"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateInput struct {
	Title      string   `json:"title" validate:"required,max=255"`
	Excerpt    string   `json:"excerpt" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Categories []string `json:"categories" validate:"required,min=1,dive,uuid"`
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title      *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Excerpt    *string   `json:"excerpt" validate:"omitempty,min=1"`
	Content    *string   `json:"content" validate:"omitempty,min=1"`
	Categories *[]string `json:"categories" validate:"omitempty,min=1,dive,uuid"`
}
