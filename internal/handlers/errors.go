package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jeremyjsx/blogapi/internal/auth"
	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/jeremyjsx/blogapi/internal/middleware"
	"github.com/jeremyjsx/blogapi/internal/posts"
	"github.com/jeremyjsx/blogapi/internal/users"
	"github.com/jeremyjsx/blogapi/internal/validation"
)

const maxBodyBytes = 1 << 20

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]string) {
	writeJSON(w, status, map[string]any{
		"error": APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}

// decodeJSON reads the request body into dst. An empty body leaves dst at
// its zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
		return false
	}
	writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
	return false
}

// writeServiceError maps a domain error to its HTTP response. Unrecognised
// errors are logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "validation failed", verrs)
	case errors.Is(err, posts.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "post not found", nil)
	case errors.Is(err, posts.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "you do not own this post", nil)
	case errors.Is(err, posts.ErrConflict):
		writeError(w, r, http.StatusConflict, "CONFLICT", "could not allocate a unique slug, retry the request", nil)
	case errors.Is(err, users.ErrEmailExists):
		writeError(w, r, http.StatusConflict, "CONFLICT", "email already registered", map[string]string{"email": "already registered"})
	case errors.Is(err, users.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials", nil)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken), errors.Is(err, users.ErrTokenRevoked):
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", nil)
	default:
		logger.FromContext(r.Context()).Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}

// principal returns the authenticated caller, answering 401 when there is none.
func principal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
	}
	return p, ok
}
