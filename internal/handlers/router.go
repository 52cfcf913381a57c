package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jeremyjsx/blogapi/internal/middleware"
	"github.com/jeremyjsx/blogapi/internal/posts"
	"github.com/jeremyjsx/blogapi/internal/users"
)

type RouterDeps struct {
	Logger     *slog.Logger
	Posts      *posts.Service
	Users      *users.Service
	Categories CategoryLister
	Health     *HealthDeps
}

// NewRouter mounts the API under /api/v1 and the health check at /health.
func NewRouter(d RouterDeps) http.Handler {
	ph := NewPostsHandler(d.Posts)
	uh := NewUsersHandler(d.Users)
	ch := NewCategoriesHandler(d.Categories)

	r := chi.NewRouter()
	r.Use(middleware.RequestID(d.Logger))
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Get("/health", Health(d.Health))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", uh.Register())
		r.Post("/login", uh.Login())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Users))

			r.Post("/logout", uh.Logout())
			r.Get("/user", uh.Me())
			r.Get("/categories", ch.List())

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", ph.List())
				r.Post("/", ph.Create())
				r.Get("/{id}", ph.Get())
				r.Put("/{id}", ph.Update())
				r.Patch("/{id}", ph.Update())
				r.Delete("/{id}", ph.Delete())
			})
		})
	})

	return r
}
