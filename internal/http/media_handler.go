package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// formFile extracts the "file" part of a multipart upload.
func (h *Handler) formFile(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return "", false
	}
	defer file.Close()

	name, err := h.media.Save(header.Filename, file)
	if err != nil {
		h.respondError(w, err)
		return "", false
	}
	return name, true
}

// UploadImage stores an uploaded gallery image and attaches it to the item.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}

	name, ok := h.formFile(w, r)
	if !ok {
		return
	}

	if _, err := h.images.AddImage(r.Context(), id, name); err != nil {
		if derr := h.media.Delete(name); derr != nil {
			h.logger.Warn("remove orphaned upload", zap.Error(derr), zap.String("file", name))
		}
		h.respondError(w, err)
		return
	}

	it, err := h.items.GetItem(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "imageID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}

	img, err := h.images.GetImage(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.media.Delete(img.Name); err != nil {
		h.logger.Warn("remove image file", zap.Error(err), zap.String("file", img.Name))
	}

	if err := h.images.DeleteImage(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// UploadCover stores an uploaded cover image and attaches it to the item.
// An item can have at most one cover.
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}

	name, ok := h.formFile(w, r)
	if !ok {
		return
	}

	it, err := h.images.SetCover(r.Context(), id, name)
	if err != nil {
		if derr := h.media.Delete(name); derr != nil {
			h.logger.Warn("remove orphaned upload", zap.Error(derr), zap.String("file", name))
		}
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *Handler) DeleteCover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}

	name, err := h.images.RemoveCover(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.media.Delete(name); err != nil {
		h.logger.Warn("remove cover file", zap.Error(err), zap.String("file", name))
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
