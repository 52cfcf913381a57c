package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/database"
)

var _ Repository = (*sqlRepository)(nil)

type sqlRepository struct {
	db *database.DB
}

func NewSQLRepository(db *database.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM posts WHERE slug = ?`), slug).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}

func (r *sqlRepository) Create(ctx context.Context, p *Post, categoryIDs []uuid.UUID) error {
	return r.db.RunInTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.db.Rebind(`
INSERT INTO posts (id, title, slug, excerpt, content, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.UserID, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrSlugExists
			}
			return fmt.Errorf("insert post: %w", err)
		}
		return r.linkCategories(ctx, tx, p.ID, categoryIDs)
	})
}

func (r *sqlRepository) linkCategories(ctx context.Context, tx *sql.Tx, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	q := r.db.Rebind(`INSERT INTO category_post (post_id, category_id) VALUES (?, ?)`)
	for _, id := range categoryIDs {
		if _, err := tx.ExecContext(ctx, q, postID, id); err != nil {
			if database.IsForeignKeyViolation(err) {
				return ErrUnknownCategory
			}
			return fmt.Errorf("link category %s: %w", id, err)
		}
	}
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	var p Post
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.user_id, p.created_at, p.updated_at,
       u.id, u.name, u.email
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.id = ?`), id).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.User.ID, &p.User.Name, &p.User.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
SELECT c.id, c.name
FROM categories c
JOIN category_post cp ON cp.category_id = c.id
WHERE cp.post_id = ?
ORDER BY c.name`), id)
	if err != nil {
		return nil, fmt.Errorf("get post categories: %w", err)
	}
	defer rows.Close()

	p.Categories = []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		p.Categories = append(p.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqlRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, search string) ([]*PostSummary, error) {
	q, args := r.listQuery(ownerID, search)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := []*PostSummary{}
	byID := map[uuid.UUID]*PostSummary{}
	for rows.Next() {
		s := &PostSummary{Categories: []string{}}
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &s.Excerpt, &s.User, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := r.attachCategoryNames(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// listQuery builds the owner listing. The search term is folded in Go and
// matched against the folded columns, so accented letters compare equal
// regardless of case on both dialects.
func (r *sqlRepository) listQuery(ownerID uuid.UUID, search string) (string, []any) {
	q := `
SELECT p.id, p.title, p.slug, p.excerpt, u.name, p.created_at
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.user_id = ?`
	args := []any{ownerID}
	if search != "" {
		q += ` AND (` + r.db.Lower("p.title") + ` LIKE ? ESCAPE '\' OR ` +
			r.db.Lower("p.content") + ` LIKE ? ESCAPE '\')`
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		args = append(args, pattern, pattern)
	}
	q += ` ORDER BY p.created_at, ` + r.insertionOrder()
	return r.db.Rebind(q), args
}

func (r *sqlRepository) attachCategoryNames(ctx context.Context, byID map[uuid.UUID]*PostSummary) error {
	args := make([]any, 0, len(byID))
	for id := range byID {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
SELECT cp.post_id, c.name
FROM category_post cp
JOIN categories c ON c.id = cp.category_id
WHERE cp.post_id IN (`+database.Placeholders(len(args))+`)
ORDER BY c.name`), args...)
	if err != nil {
		return fmt.Errorf("list post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID uuid.UUID
			name   string
		)
		if err := rows.Scan(&postID, &name); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		if s, ok := byID[postID]; ok {
			s.Categories = append(s.Categories, name)
		}
	}
	return rows.Err()
}

// insertionOrder breaks created_at ties. sqlite's rowid follows insertion;
// postgres ids are random, so there it only keeps the order deterministic.
func (r *sqlRepository) insertionOrder() string {
	if r.db.Dialect == database.SQLite {
		return "p.rowid"
	}
	return "p.id"
}

func (r *sqlRepository) Update(ctx context.Context, p *Post, categoryIDs []uuid.UUID) error {
	return r.db.RunInTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.db.Rebind(`
UPDATE posts SET title = ?, excerpt = ?, content = ?, updated_at = ?
WHERE id = ?`),
			p.Title, p.Excerpt, p.Content, p.UpdatedAt, p.ID)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return err
		}

		if categoryIDs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM category_post WHERE post_id = ?`), p.ID); err != nil {
			return fmt.Errorf("unlink categories: %w", err)
		}
		return r.linkCategories(ctx, tx, p.ID, categoryIDs)
	})
}

func (r *sqlRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM category_post WHERE post_id = ?`), id); err != nil {
			return fmt.Errorf("unlink categories: %w", err)
		}
		res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM posts WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return expectOneRow(res)
	})
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
