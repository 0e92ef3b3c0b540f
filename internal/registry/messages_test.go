package registry

import (
	"errors"
	"testing"

	"github.com/signcircle/backend/internal/domain"
)

func messagingPair(t *testing.T) (domain.User, domain.User) {
	t.Helper()
	users := NewUserRegistry()
	a, err := users.Create(domain.Record{"id": "u1", "name": "Alice", "handle": "@alice", "email": "a@example.com"}, UserTypeRegular)
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	b, err := users.Create(domain.Record{"id": "u2", "name": "Bob", "handle": "@bob", "email": "b@example.com"}, UserTypeRegular)
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	return a, b
}

func TestMessageRegistryConversationAccumulatesBothDirections(t *testing.T) {
	alice, bob := messagingPair(t)
	reg := NewMessageRegistry()

	first, err := reg.Send(domain.Record{"sender": alice, "receiver": bob, "content": "hi bob"}, domain.MessageKindText)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	second, err := reg.Send(domain.Record{"sender": bob, "receiver": alice, "content": "hi alice"}, domain.MessageKindText)
	if err != nil {
		t.Fatalf("send reply: %v", err)
	}

	thread := reg.Conversation(alice.ID(), bob.ID())
	if len(thread) != 2 || thread[0] != first || thread[1] != second {
		t.Fatalf("unexpected thread: %v", thread)
	}

	reversed := reg.Conversation(bob.ID(), alice.ID())
	if len(reversed) != 2 {
		t.Fatal("thread must be retrievable by either participant ordering")
	}
}

func TestMessageRegistrySendVariants(t *testing.T) {
	alice, bob := messagingPair(t)
	reg := NewMessageRegistry()

	call, err := reg.Send(domain.Record{"sender": alice, "receiver": bob, "content": "Video call"}, domain.MessageKindVideoCall)
	if err != nil {
		t.Fatalf("send call: %v", err)
	}
	if _, ok := call.(*domain.CallRecord); !ok {
		t.Fatalf("expected *CallRecord got %T", call)
	}

	fallback, err := reg.Send(domain.Record{"sender": alice, "receiver": bob, "content": "hey"}, "carrier-pigeon")
	if err != nil {
		t.Fatalf("send fallback: %v", err)
	}
	if _, ok := fallback.(*domain.TextMessage); !ok {
		t.Fatalf("unknown discriminator should yield *TextMessage got %T", fallback)
	}
}

func TestMessageRegistryRejectsInvalid(t *testing.T) {
	alice, _ := messagingPair(t)
	reg := NewMessageRegistry()

	if _, err := reg.Send(domain.Record{"sender": alice, "content": "hi"}, domain.MessageKindText); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid got %v", err)
	}
	if count := len(reg.Conversation("u1", "u2")); count != 0 {
		t.Fatalf("failed send must not thread a message, got %d", count)
	}
}

func TestMessageRegistryUnread(t *testing.T) {
	alice, bob := messagingPair(t)
	reg := NewMessageRegistry()

	msg, _ := reg.Send(domain.Record{"sender": alice, "receiver": bob, "content": "one"}, domain.MessageKindText)
	reg.Send(domain.Record{"sender": alice, "receiver": bob, "content": "two"}, domain.MessageKindText)
	reg.Send(domain.Record{"sender": bob, "receiver": alice, "content": "reply"}, domain.MessageKindText)

	if got := reg.UnreadCountFor(bob.ID()); got != 2 {
		t.Fatalf("expected 2 unread for bob got %d", got)
	}

	if _, err := reg.MarkRead(msg.ID()); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := reg.UnreadCountFor(bob.ID()); got != 1 {
		t.Fatalf("expected 1 unread after reading got %d", got)
	}

	if _, err := reg.MarkRead("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestMessageRegistryConversationSnapshot(t *testing.T) {
	alice, bob := messagingPair(t)
	reg := NewMessageRegistry()
	reg.Send(domain.Record{"sender": alice, "receiver": bob, "content": "hi"}, domain.MessageKindText)

	thread := reg.Conversation(alice.ID(), bob.ID())
	thread[0] = nil
	if again := reg.Conversation(alice.ID(), bob.ID()); again[0] == nil {
		t.Fatal("snapshot mutation leaked into registry")
	}
}
