package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/auth"
	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/jeremyjsx/blogapi/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	authenticate func(ctx context.Context, token string) (*auth.Principal, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	if m.authenticate != nil {
		return m.authenticate(ctx, token)
	}
	return nil, auth.ErrInvalidToken
}

func TestRequestID(t *testing.T) {
	base := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	var seen string
	h := RequestID(base)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		assert.NotSame(t, base, logger.FromContext(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-id-42", seen)
	assert.Equal(t, "client-id-42", rec.Header().Get(RequestIDHeader))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestID(base)(Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/posts/x", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "DELETE", line["method"])
	assert.Equal(t, "/api/v1/posts/x", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.NotEmpty(t, line["request_id"])
}

func TestAuthenticate(t *testing.T) {
	principal := &auth.Principal{ID: uuid.New(), Name: "Ada"}
	a := &mockAuthenticator{authenticate: func(_ context.Context, token string) (*auth.Principal, error) {
		switch token {
		case "good":
			return principal, nil
		case "expired":
			return nil, auth.ErrExpiredToken
		case "revoked":
			return nil, fmt.Errorf("authenticate: %w", users.ErrTokenRevoked)
		}
		return nil, auth.ErrInvalidToken
	}}

	var got *auth.Principal
	h := Authenticate(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusNoContent},
		{"scheme is case-insensitive", "bearer good", http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"rejected token", "Bearer bad", http.StatusUnauthorized},
		{"expired token", "Bearer expired", http.StatusUnauthorized},
		{"revoked token", "Bearer revoked", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusUnauthorized {
				assert.Same(t, principal, got)
				return
			}
			assert.Nil(t, got)
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		})
	}
}

func TestAuthenticate_StorageFailureIsInternal(t *testing.T) {
	a := &mockAuthenticator{authenticate: func(context.Context, string) (*auth.Principal, error) {
		return nil, errors.New("pq: connection refused")
	}}
	called := false
	h := Authenticate(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
	assert.NotContains(t, rec.Body.String(), "connection refused")
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
