package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/pagegate/pagegate/internal/media"
)

// maxMediaBytes caps uploads at 16 MiB.
const maxMediaBytes = 16 << 20

// MediaHandlers serves the opaque media endpoints. Media never touches the
// graph store; the graph only carries the identifiers returned here.
type MediaHandlers struct {
	store *media.Store
	hub   *EventHub
}

// NewMediaHandlers creates media handlers over the given store.
func NewMediaHandlers(store *media.Store, hub *EventHub) *MediaHandlers {
	return &MediaHandlers{store: store, hub: hub}
}

// Upload handles POST /api/media - store raw bytes with their content type
// and return the generated identifier.
func (h *MediaHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxMediaBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "request body is empty", nil)
		return
	}
	if len(data) > maxMediaBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "media exceeds size limit", nil)
		return
	}

	id, err := h.store.Put(r.Context(), r.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store media", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(Event{Event: "media.stored", MediaID: id})
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id})
}

// Fetch handles GET /api/media/{id} - serve the stored bytes with their
// original content type, 404 for unknown ids.
func (h *MediaHandlers) Fetch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "media id is required", nil)
		return
	}

	obj, err := h.store.Get(r.Context(), id)
	if errors.Is(err, media.ErrNotFound) {
		respondError(w, http.StatusNotFound, "media not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load media", err)
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(obj.Data)
}
