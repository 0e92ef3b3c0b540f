package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
)

// MessageHandler implements the direct message endpoints.
type MessageHandler struct {
	Messages Messenger
	Users    UserDirectory
	Archive  Archivist
}

// Send handles POST /api/v1/messages requests.
func (h MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid message payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sender, err := h.Users.Get(strings.TrimSpace(req.SenderID))
	if err != nil {
		logger.Warn("message sender lookup failed", "senderId", req.SenderID, "error", err)
		respondError(ctx, w, err)
		return
	}

	receiver, err := h.Users.Get(strings.TrimSpace(req.ReceiverID))
	if err != nil {
		logger.Warn("message receiver lookup failed", "receiverId", req.ReceiverID, "error", err)
		respondError(ctx, w, err)
		return
	}

	rec := domain.Record{
		"sender":   sender,
		"receiver": receiver,
		"content":  req.Content,
	}
	if req.Type == domain.MessageKindVideoCall {
		rec["duration"] = req.Duration
		if req.CallStatus != "" {
			rec["callStatus"] = req.CallStatus
		}
	}

	msg, err := h.Messages.Send(rec, req.Type)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "messages", msg)
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"message": msg.Serialize()})
}

// Conversation handles GET /api/v1/messages/conversation?user1=&user2=,
// returning the shared thread in send order.
func (h MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	user1 := strings.TrimSpace(r.URL.Query().Get("user1"))
	user2 := strings.TrimSpace(r.URL.Query().Get("user2"))
	if user1 == "" || user2 == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user1 and user2 are required"})
		return
	}

	messages := h.Messages.Conversation(user1, user2)
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"conversationId": domain.ConversationKey(user1, user2),
		"messages":       serializeMessages(messages),
	})
}

// Unread handles GET /api/v1/messages/unread?user=, returning the unread
// messages addressed to the member and their count.
func (h MessageHandler) Unread(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"messages": serializeMessages(h.Messages.UnreadFor(userID)),
		"count":    h.Messages.UnreadCountFor(userID),
	})
}

// MarkRead handles POST /api/v1/messages/{id}/read.
func (h MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	msg, err := h.Messages.MarkRead(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "messages", msg)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"message": msg.Serialize()})
}

type sendMessageRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	Duration   int    `json:"duration"`
	CallStatus string `json:"callStatus"`
}

func serializeMessages(messages []domain.Message) []domain.Record {
	records := make([]domain.Record, 0, len(messages))
	for _, m := range messages {
		records = append(records, m.Serialize())
	}
	return records
}
