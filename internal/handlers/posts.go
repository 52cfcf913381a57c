package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/posts"
)

type PostsHandler struct {
	svc *posts.Service
}

func NewPostsHandler(svc *posts.Service) *PostsHandler {
	return &PostsHandler{svc: svc}
}

func (h *PostsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := principal(w, r)
		if !ok {
			return
		}
		var in posts.CreateInput
		if !decodeJSON(w, r, &in) {
			return
		}

		post, err := h.svc.CreatePost(r.Context(), owner, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.Header().Set("Location", "/api/v1/posts/"+post.ID.String())
		writeJSON(w, http.StatusCreated, post)
	}
}

func (h *PostsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := principal(w, r)
		if !ok {
			return
		}

		list, err := h.svc.ListPosts(r.Context(), owner, r.URL.Query().Get("search"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (h *PostsHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester, ok := principal(w, r)
		if !ok {
			return
		}
		id, ok := postID(w, r)
		if !ok {
			return
		}

		post, err := h.svc.GetPost(r.Context(), requester, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester, ok := principal(w, r)
		if !ok {
			return
		}
		id, ok := postID(w, r)
		if !ok {
			return
		}
		var in posts.UpdateInput
		if !decodeJSON(w, r, &in) {
			return
		}

		post, err := h.svc.UpdatePost(r.Context(), requester, id, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester, ok := principal(w, r)
		if !ok {
			return
		}
		id, ok := postID(w, r)
		if !ok {
			return
		}

		if err := h.svc.DeletePost(r.Context(), requester, id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// postID parses the {id} route parameter. Ids that are not UUIDs cannot
// name a post, so they answer 404.
func postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "post not found", nil)
		return uuid.Nil, false
	}
	return id, true
}
