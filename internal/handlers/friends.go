package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
)

// FriendHandler implements the friendship endpoints.
type FriendHandler struct {
	Friendships FriendshipLedger
	Users       UserDirectory
	Archive     Archivist
}

// Invite handles POST /api/v1/friends/invite with {"userId", "friendId"}.
func (h FriendHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid invite payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.Users.Get(strings.TrimSpace(req.UserID))
	if err != nil {
		logger.Warn("invite requester lookup failed", "userId", req.UserID, "error", err)
		respondError(ctx, w, err)
		return
	}

	friend, err := h.Users.Get(strings.TrimSpace(req.FriendID))
	if err != nil {
		logger.Warn("invite friend lookup failed", "friendId", req.FriendID, "error", err)
		respondError(ctx, w, err)
		return
	}

	friendship, err := h.Friendships.Request(user, friend)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "friendships", friendship)
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"friendship": friendship.Serialize()})
}

// Respond handles POST /api/v1/friends/respond with {"requestId", "action"}
// where action is accept, decline, block, or unblock.
func (h FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid respond payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id := strings.TrimSpace(req.RequestID)

	var (
		friendship *domain.Friendship
		err        error
	)
	switch req.Action {
	case "accept":
		friendship, err = h.Friendships.Accept(id)
	case "decline":
		friendship, err = h.Friendships.Decline(id)
	case "block":
		friendship, err = h.Friendships.Block(id)
	case "unblock":
		friendship, err = h.Friendships.Unblock(id)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "unknown action"})
		return
	}
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "friendships", friendship)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"friendship": friendship.Serialize()})
}

// List handles GET /api/v1/friends?user=, returning accepted friendships.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user is required"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"friendships": serializeFriendships(h.Friendships.FriendsOf(userID))})
}

// Pending handles GET /api/v1/friends/pending?user=, returning requests
// awaiting the member's response.
func (h FriendHandler) Pending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user is required"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"friendships": serializeFriendships(h.Friendships.PendingFor(userID))})
}

type inviteRequest struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
}

type respondRequest struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
}

func serializeFriendships(friendships []*domain.Friendship) []domain.Record {
	records := make([]domain.Record, 0, len(friendships))
	for _, f := range friendships {
		records = append(records, f.Serialize())
	}
	return records
}
