package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/database"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	RevokeToken(ctx context.Context, tokenID, userID uuid.UUID, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error)
}

var _ Repository = (*sqlRepository)(nil)

type sqlRepository struct {
	db *database.DB
}

func NewSQLRepository(db *database.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`),
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
SELECT id, name, email, password_hash, created_at, updated_at
FROM users WHERE id = ?`), id)
	return scanUser(row)
}

func (r *sqlRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
SELECT id, name, email, password_hash, created_at, updated_at
FROM users WHERE email = ?`), email)
	return scanUser(row)
}

func (r *sqlRepository) RevokeToken(ctx context.Context, tokenID, userID uuid.UUID, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO revoked_tokens (token_id, user_id, expires_at) VALUES (?, ?, ?)`),
		tokenID, userID, expiresAt.UTC())
	if err != nil && !database.IsUniqueViolation(err) {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *sqlRepository) IsTokenRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM revoked_tokens WHERE token_id = ?`), tokenID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
