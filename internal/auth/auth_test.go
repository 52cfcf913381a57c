package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	bcryptCost = bcrypt.MinCost
}

func newTestTokenService(t *testing.T, now time.Time) *TokenService {
	t.Helper()
	s, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testSecret, 0)
	assert.Error(t, err)
}

func TestTokenService_IssueAndParse(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	s := newTestTokenService(t, now)
	p := Principal{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}

	token, issued, err := s.Issue(p)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt)

	got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.UserID)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, issued.TokenID, got.TokenID)
	assert.True(t, got.ExpiresAt.Equal(issued.ExpiresAt))
}

func TestTokenService_Parse_Expired(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	s := newTestTokenService(t, now)
	token, _, err := s.Issue(Principal{ID: uuid.New()})
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_Parse_WithinLeeway(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	s := newTestTokenService(t, now)
	token, _, err := s.Issue(Principal{ID: uuid.New()})
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(time.Hour + time.Minute) }
	_, err = s.Parse(token)
	assert.NoError(t, err)
}

func TestTokenService_Parse_Invalid(t *testing.T) {
	now := time.Now()
	s := newTestTokenService(t, now)

	other, err := NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue(Principal{ID: uuid.New()})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	badSubjectToken, err := badSubject.SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong key":    foreign,
		"alg none":     unsigned,
		"non-uuid sub": badSubjectToken,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse battery staple"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	_, ok = PrincipalFromContext(WithPrincipal(context.Background(), &Principal{}))
	assert.False(t, ok, "nil user id is not a principal")

	p := &Principal{ID: uuid.New(), Name: "Ada"}
	got, ok := PrincipalFromContext(WithPrincipal(context.Background(), p))
	require.True(t, ok)
	assert.Same(t, p, got)
}
