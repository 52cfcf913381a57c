package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/auth"
	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/jeremyjsx/blogapi/internal/validation"
)

type Service struct {
	repo   Repository
	tokens *auth.TokenService
	now    func() time.Time
}

func NewService(repo Repository, tokens *auth.TokenService) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	u := &User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Logout revokes the token the principal authenticated with.
func (s *Service) Logout(ctx context.Context, p *auth.Principal) error {
	if p.TokenID == uuid.Nil {
		return auth.ErrInvalidToken
	}
	expiresAt := p.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.tokens.TTL())
	}
	if err := s.repo.RevokeToken(ctx, p.TokenID, p.ID, expiresAt); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("token revoked", "user_id", p.ID, "token_id", p.TokenID)
	return nil
}

// Authenticate resolves a bearer token to the principal it was issued to.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}

	return &auth.Principal{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *Service) issue(u *User) (*Session, error) {
	token, claims, err := s.tokens.Issue(auth.Principal{ID: u.ID, Name: u.Name, Email: u.Email})
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt,
		User:      u,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
