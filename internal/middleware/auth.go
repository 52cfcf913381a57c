package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jeremyjsx/blogapi/internal/auth"
	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/jeremyjsx/blogapi/internal/users"
)

// Authenticator resolves a bearer token to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// principal in the context of the ones it lets through.
func Authenticate(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			p, err := a.Authenticate(r.Context(), token)
			if err != nil {
				log := logger.FromContext(r.Context())
				if !isTokenError(err) {
					log.Error("authenticate request", "error", err)
					writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
					return
				}
				log.Debug("authentication failed", "error", err)
				writeUnauthorized(w, r, "invalid or expired token")
				return
			}

			ctx := auth.WithPrincipal(r.Context(), p)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", p.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	const prefix = "bearer "
	s := r.Header.Get("Authorization")
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(s[len(prefix):])
}

func isTokenError(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, users.ErrTokenRevoked)
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(r.Context()),
		},
	})
}
