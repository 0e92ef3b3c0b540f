package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/signcircle/backend/internal/logging"
)

// maxUploadBytes caps media uploads at 64 MiB.
const maxUploadBytes = 64 << 20

// MediaHandler accepts media uploads (avatars, post video, lesson clips) and
// stores them in the configured object store.
type MediaHandler struct {
	Storage MediaStorage
}

// Upload handles POST /api/v1/media multipart requests with a "file" part.
func (h MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Storage == nil {
		logger.Error("media storage unavailable")
		respondJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"error": "media storage is not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid media upload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart payload"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("media upload missing file part", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "file part is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	key := fmt.Sprintf("media/%s%s", uuid.NewString(), ext)
	contentType := header.Header.Get("Content-Type")

	location, err := h.Storage.Save(ctx, key, contentType, file)
	if err != nil {
		logger.Error("media upload failed", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to store media"})
		return
	}

	logger.Info("media stored", "key", key, "size", header.Size)
	respondJSON(ctx, w, http.StatusCreated, map[string]string{"url": location})
}
