package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cdyhdrxj/store-backend/internal/catalog"
)

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
	BrandID     int64  `json:"brand_id"`
	CategoryID  int64  `json:"category_id"`
}

func (req createItemRequest) validate() string {
	switch {
	case req.Name == "" || len(req.Name) > 50:
		return "name must be 1-50 characters"
	case len(req.Description) > 200:
		return "description must be at most 200 characters"
	case req.Price < 0 || req.Price > catalog.MaxPrice:
		return "price out of range"
	case req.Quantity < 0 || req.Quantity > catalog.MaxQuantity:
		return "quantity out of range"
	case req.BrandID <= 0 || req.CategoryID <= 0:
		return "brand_id and category_id are required"
	}
	return ""
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	it, err := h.items.CreateItem(r.Context(), catalog.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		BrandID:     req.BrandID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.ParseInt(q.Get("offset"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	items, err := h.items.ListItems(r.Context(), catalog.ListFilter{
		Offset: offset,
		Limit:  limit,
		Search: q.Get("search"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	it, err := h.items.GetItem(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	items, err := h.items.SimilarItems(r.Context(), id, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}

	var upd catalog.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if upd.Name != nil && (*upd.Name == "" || len(*upd.Name) > 50) {
		writeError(w, http.StatusUnprocessableEntity, "name must be 1-50 characters")
		return
	}
	if upd.Description != nil && len(*upd.Description) > 200 {
		writeError(w, http.StatusUnprocessableEntity, "description must be at most 200 characters")
		return
	}
	if upd.Price != nil && (*upd.Price < 0 || *upd.Price > catalog.MaxPrice) {
		writeError(w, http.StatusUnprocessableEntity, "price out of range")
		return
	}

	it, err := h.items.UpdateItem(r.Context(), id, upd)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	if err := h.items.DeleteItem(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Restock increases an item's stock (the counterpart of Buy, for managers).
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	it, err := h.purchases.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
