package httpapi

import (
	"net/http"
)

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "name must be 1-50 characters")
		return
	}
	c, err := h.taxonomy.CreateCategory(r.Context(), name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.taxonomy.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	c, err := h.taxonomy.GetCategory(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "name must be 1-50 characters")
		return
	}
	c, err := h.taxonomy.UpdateCategory(r.Context(), id, name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	if err := h.taxonomy.DeleteCategory(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
