package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
	"github.com/signcircle/backend/internal/registry"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError maps registry and domain sentinels onto HTTP statuses.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, registry.ErrBadTransition):
		status = http.StatusConflict
	}
	respondJSON(ctx, w, status, map[string]string{"error": err.Error()})
}

// archiveSave best-effort persists an entity snapshot. Archive failures are
// logged but never fail the request; the registries stay authoritative.
func archiveSave(ctx context.Context, archive Archivist, kind string, m domain.Model) {
	if archive == nil || m == nil {
		return
	}
	if err := archive.Save(ctx, kind, m.ID(), m.Serialize()); err != nil {
		logging.FromContext(ctx).Warn("archive snapshot failed", "kind", kind, "id", m.ID(), "error", err)
	}
}

func archiveDelete(ctx context.Context, archive Archivist, kind, id string) {
	if archive == nil {
		return
	}
	if err := archive.Delete(ctx, kind, id); err != nil {
		logging.FromContext(ctx).Warn("archive delete failed", "kind", kind, "id", id, "error", err)
	}
}
