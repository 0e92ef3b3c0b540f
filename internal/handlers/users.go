package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
)

// UserHandler implements the member directory endpoints.
type UserHandler struct {
	Users   UserDirectory
	Archive Archivist
}

// List handles GET /api/v1/users. Supports ?query= for name and handle
// search and ?online=true for the presence roster.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var users []domain.User
	switch {
	case r.URL.Query().Get("online") == "true":
		users = h.Users.Online()
	case strings.TrimSpace(r.URL.Query().Get("query")) != "":
		users = h.Users.Search(r.URL.Query().Get("query"))
	default:
		users = h.Users.All()
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"users": serializeUsers(users)})
}

// Get handles GET /api/v1/users/{id}.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	user, err := h.Users.Get(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"user": user.Serialize()})
}

// Update handles PATCH /api/v1/users/{id} with a partial field map.
func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var updates domain.Record
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		logger.Warn("invalid user update payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.Users.Update(r.PathValue("id"), updates)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "users", user)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"user": user.Serialize()})
}

// Presence handles POST /api/v1/users/{id}/presence with {"online": bool}.
func (h UserHandler) Presence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req presenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid presence payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.Users.SetOnline(r.PathValue("id"), req.Online)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "users", user)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"user": user.Serialize()})
}

// Delete handles DELETE /api/v1/users/{id}.
func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.Users.Delete(id); err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveDelete(ctx, h.Archive, "users", id)
	w.WriteHeader(http.StatusNoContent)
}

type presenceRequest struct {
	Online bool `json:"online"`
}

func serializeUsers(users []domain.User) []domain.Record {
	records := make([]domain.Record, 0, len(users))
	for _, u := range users {
		records = append(records, u.Serialize())
	}
	return records
}
