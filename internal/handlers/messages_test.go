package handlers

import (
	"net/http"
	"testing"

	"github.com/signcircle/backend/internal/domain"
)

func TestMessageHandlerSendAndConversation(t *testing.T) {
	env := newTestEnv(t)
	maya := env.createUser(t, "Maya Chen", "maya_signs")
	jordan := env.createUser(t, "Jordan Lee", "jordan_asl")

	rec := env.do(t, http.MethodPost, "/api/v1/messages", sendMessageRequest{
		SenderID:   maya.ID(),
		ReceiverID: jordan.ID(),
		Content:    "Hey, want to practice later?",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/messages", sendMessageRequest{
		SenderID:   jordan.ID(),
		ReceiverID: maya.ID(),
		Content:    "Sure, 6pm works",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("reply: expected status %d got %d", http.StatusCreated, rec.Code)
	}

	var resp struct {
		ConversationID string          `json:"conversationId"`
		Messages       []domain.Record `json:"messages"`
	}

	// Either participant order resolves to the same thread.
	rec = env.do(t, http.MethodGet, "/api/v1/messages/conversation?user1="+jordan.ID()+"&user2="+maya.ID(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("conversation: expected status %d got %d", http.StatusOK, rec.Code)
	}
	decodeBody(t, rec, &resp)

	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages in thread, got %d", len(resp.Messages))
	}
	if resp.ConversationID != domain.ConversationKey(maya.ID(), jordan.ID()) {
		t.Fatalf("unexpected conversation id %q", resp.ConversationID)
	}
	if resp.Messages[0]["content"] != "Hey, want to practice later?" {
		t.Fatalf("expected send order preserved, got %v", resp.Messages[0]["content"])
	}

	if env.archive.count("messages") != 2 {
		t.Fatalf("expected message snapshots archived, got %d", env.archive.count("messages"))
	}
}

func TestMessageHandlerSendValidation(t *testing.T) {
	env := newTestEnv(t)
	maya := env.createUser(t, "Maya Chen", "maya_signs")

	rec := env.do(t, http.MethodPost, "/api/v1/messages", sendMessageRequest{
		SenderID:   maya.ID(),
		ReceiverID: "missing",
		Content:    "hello",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown receiver, got %d", http.StatusNotFound, rec.Code)
	}

	jordan := env.createUser(t, "Jordan Lee", "jordan_asl")
	rec = env.do(t, http.MethodPost, "/api/v1/messages", sendMessageRequest{
		SenderID:   maya.ID(),
		ReceiverID: jordan.ID(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for empty content, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestMessageHandlerVideoCall(t *testing.T) {
	env := newTestEnv(t)
	maya := env.createUser(t, "Maya Chen", "maya_signs")
	jordan := env.createUser(t, "Jordan Lee", "jordan_asl")

	rec := env.do(t, http.MethodPost, "/api/v1/messages", sendMessageRequest{
		SenderID:   maya.ID(),
		ReceiverID: jordan.ID(),
		Content:    "Video call",
		Type:       domain.MessageKindVideoCall,
		Duration:   65,
		CallStatus: domain.CallCompleted,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Message domain.Record `json:"message"`
	}
	decodeBody(t, rec, &resp)

	if resp.Message["type"] != domain.MessageKindVideoCall {
		t.Fatalf("expected video-call kind, got %v", resp.Message["type"])
	}
	if resp.Message["callStatus"] != domain.CallCompleted {
		t.Fatalf("expected completed call, got %v", resp.Message["callStatus"])
	}
	if resp.Message["formattedDuration"] != "1:05" {
		t.Fatalf("expected 1:05 duration, got %v", resp.Message["formattedDuration"])
	}
}

func TestMessageHandlerUnreadAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	maya := env.createUser(t, "Maya Chen", "maya_signs")
	jordan := env.createUser(t, "Jordan Lee", "jordan_asl")

	sent := env.do(t, http.MethodPost, "/api/v1/messages", sendMessageRequest{
		SenderID:   maya.ID(),
		ReceiverID: jordan.ID(),
		Content:    "unread ping",
	})

	var sentResp struct {
		Message domain.Record `json:"message"`
	}
	decodeBody(t, sent, &sentResp)
	msgID, _ := sentResp.Message["id"].(string)

	var unread struct {
		Messages []domain.Record `json:"messages"`
		Count    int             `json:"count"`
	}

	rec := env.do(t, http.MethodGet, "/api/v1/messages/unread?user="+jordan.ID(), nil)
	decodeBody(t, rec, &unread)
	if unread.Count != 1 || len(unread.Messages) != 1 {
		t.Fatalf("expected 1 unread message, got count=%d len=%d", unread.Count, len(unread.Messages))
	}

	// The sender has no unread messages.
	rec = env.do(t, http.MethodGet, "/api/v1/messages/unread?user="+maya.ID(), nil)
	decodeBody(t, rec, &unread)
	if unread.Count != 0 {
		t.Fatalf("expected no unread for sender, got %d", unread.Count)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/messages/"+msgID+"/read", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read: expected status %d got %d", http.StatusOK, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/messages/unread?user="+jordan.ID(), nil)
	decodeBody(t, rec, &unread)
	if unread.Count != 0 {
		t.Fatalf("expected no unread after mark read, got %d", unread.Count)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/messages/missing/read", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown message, got %d", http.StatusNotFound, rec.Code)
	}
}
