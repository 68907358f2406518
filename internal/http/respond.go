package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cdyhdrxj/store-backend/internal/catalog"
	"github.com/cdyhdrxj/store-backend/internal/media"
	"github.com/cdyhdrxj/store-backend/internal/purchase"
	"github.com/cdyhdrxj/store-backend/internal/user"
)

type jsonError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, jsonError{Error: message})
}

// respondError maps domain errors to their stable status codes so API
// consumers can branch on status, not on message text.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, "insufficient stock")
	case errors.Is(err, purchase.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "invalid quantity")
	case errors.Is(err, catalog.ErrQuantityRange):
		writeError(w, http.StatusBadRequest, "quantity out of range")
	case errors.Is(err, catalog.ErrCoverExists):
		writeError(w, http.StatusConflict, "item already has a cover")
	case errors.Is(err, user.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, user.ErrInvalidUsername),
		errors.Is(err, user.ErrInvalidPassword),
		errors.Is(err, user.ErrInvalidRole):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, media.ErrTooLarge),
		errors.Is(err, media.ErrUnsupportedType),
		errors.Is(err, media.ErrBadName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
