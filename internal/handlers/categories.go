package handlers

import (
	"context"
	"net/http"

	"github.com/jeremyjsx/blogapi/internal/categories"
)

type CategoryLister interface {
	List(ctx context.Context) ([]categories.Category, error)
}

type CategoriesHandler struct {
	repo CategoryLister
}

func NewCategoriesHandler(repo CategoryLister) *CategoriesHandler {
	return &CategoriesHandler{repo: repo}
}

func (h *CategoriesHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.repo.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
