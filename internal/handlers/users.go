package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/users"
)

type UsersHandler struct {
	svc *users.Service
}

func NewUsersHandler(svc *users.Service) *UsersHandler {
	return &UsersHandler{svc: svc}
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type registerResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *UsersHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in users.RegisterInput
		if !decodeJSON(w, r, &in) {
			return
		}

		sess, err := h.svc.Register(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, registerResponse{
			User:  userResponse{ID: sess.User.ID, Name: sess.User.Name, Email: sess.User.Email},
			Token: sess.Token,
		})
	}
}

func (h *UsersHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in users.LoginInput
		if !decodeJSON(w, r, &in) {
			return
		}

		sess, err := h.svc.Login(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{
			Token:     sess.Token,
			TokenType: sess.TokenType,
			ExpiresAt: sess.ExpiresAt,
		})
	}
}

func (h *UsersHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		if err := h.svc.Logout(r.Context(), p); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me returns the authenticated user.
func (h *UsersHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, userResponse{ID: p.ID, Name: p.Name, Email: p.Email})
	}
}
