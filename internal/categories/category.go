// Package categories stores the fixed set of labels posts are filed under.
package categories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/database"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	EnsureByName(ctx context.Context, name string) (*Category, error)
}

var _ Repository = (*sqlRepository)(nil)

type sqlRepository struct {
	db *database.DB
}

func NewSQLRepository(db *database.DB) Repository {
	return &sqlRepository{db: db}
}

// List returns every category ordered by name.
func (r *sqlRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ExistingIDs reports which of ids are stored.
func (r *sqlRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := r.db.Rebind(`SELECT id FROM categories WHERE id IN (` + database.Placeholders(len(ids)) + `)`)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		found[id] = true
	}
	return found, rows.Err()
}

// EnsureByName returns the category called name, creating it first if needed.
func (r *sqlRepository) EnsureByName(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is empty")
	}

	c := &Category{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`),
		c.ID, c.Name, c.CreatedAt)
	if err == nil {
		return c, nil
	}
	if !database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	var existing Category
	err = r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT id, name, created_at FROM categories WHERE name = ?`), name).
		Scan(&existing.ID, &existing.Name, &existing.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("load category %q: %w", name, err)
	}
	return &existing, nil
}
