package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLength = 32

type Claims struct {
	UserID    uuid.UUID
	Name      string
	Email     string
	TokenID   uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &TokenService{
		key:    []byte(secret),
		ttl:    ttl,
		leeway: 2 * time.Minute,
		now:    time.Now,
	}, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new token for p.
func (s *TokenService) Issue(p Principal) (string, *Claims, error) {
	now := s.now().UTC()
	c := &Claims{
		UserID:    p.ID,
		Name:      p.Name,
		Email:     p.Email,
		TokenID:   uuid.New(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Name:  c.Name,
		Email: c.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID.String(),
			ID:        c.TokenID.String(),
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, c, nil
}

// Parse verifies the signature and time claims of a token.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &tc,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(tc.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	tokenID, err := uuid.Parse(tc.ID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	c := &Claims{
		UserID:  userID,
		Name:    tc.Name,
		Email:   tc.Email,
		TokenID: tokenID,
	}
	if tc.IssuedAt != nil {
		c.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}
