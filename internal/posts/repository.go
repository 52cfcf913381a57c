package posts

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	SlugChecker
	// Create inserts p and its category links in one transaction. A slug
	// collision returns ErrSlugExists.
	Create(ctx context.Context, p *Post, categoryIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, search string) ([]*PostSummary, error)
	// Update writes the mutable columns of p. A nil categoryIDs keeps the
	// current links, otherwise they are replaced.
	Update(ctx context.Context, p *Post, categoryIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryLookup reports which category ids exist.
type CategoryLookup interface {
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}
