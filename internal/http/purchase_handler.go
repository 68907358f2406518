package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cdyhdrxj/store-backend/internal/auth"
)

type quantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// Buy purchases the requested quantity of an item on behalf of the
// authenticated user and returns the updated item.
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
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

	p, _ := auth.FromContext(r.Context())

	it, err := h.purchases.Buy(r.Context(), id, req.Quantity, p.Username)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
