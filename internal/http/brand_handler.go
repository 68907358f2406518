package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	return id, err == nil && id > 0
}

type nameRequest struct {
	Name string `json:"name"`
}

func decodeName(r *http.Request) (string, bool) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", false
	}
	if req.Name == "" || len(req.Name) > 50 {
		return "", false
	}
	return req.Name, true
}

func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "name must be 1-50 characters")
		return
	}
	b, err := h.taxonomy.CreateBrand(r.Context(), name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.taxonomy.ListBrands(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (h *Handler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "brandID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	b, err := h.taxonomy.GetBrand(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "brandID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "name must be 1-50 characters")
		return
	}
	b, err := h.taxonomy.UpdateBrand(r.Context(), id, name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "brandID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	if err := h.taxonomy.DeleteBrand(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
