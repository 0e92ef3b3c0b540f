package registry

import (
	"fmt"
	"sync"

	"github.com/signcircle/backend/internal/domain"
)

// MessageRegistry owns the canonical message collection and the conversation
// threads grouped by canonical key, so both participants see the same thread
// regardless of message direction.
type MessageRegistry struct {
	mu       sync.RWMutex
	messages map[string]domain.Message
	order    []string
	threads  map[string][]domain.Message
}

// NewMessageRegistry constructs an empty message registry.
func NewMessageRegistry() *MessageRegistry {
	return &MessageRegistry{
		messages: make(map[string]domain.Message),
		threads:  make(map[string][]domain.Message),
	}
}

// Send builds the message variant selected by messageType, validates it,
// indexes it by id, and appends it to the conversation thread between sender
// and receiver. Unknown discriminators fall back to a text message.
func (r *MessageRegistry) Send(rec domain.Record, messageType string) (domain.Message, error) {
	var msg domain.Message
	switch messageType {
	case domain.MessageKindVideoCall:
		msg = domain.NewCallRecord(rec)
	default:
		msg = domain.NewTextMessage(rec)
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.messages[msg.ID()]; exists {
		return nil, fmt.Errorf("message %s: %w", msg.ID(), ErrConflict)
	}
	r.messages[msg.ID()] = msg
	r.order = append(r.order, msg.ID())

	key := domain.ConversationKey(msg.Sender().ID(), msg.Receiver().ID())
	r.threads[key] = append(r.threads[key], msg)
	return msg, nil
}

// Get returns the message with the given id.
func (r *MessageRegistry) Get(id string) (domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	return msg, nil
}

// All returns every message in send order.
func (r *MessageRegistry) All() []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Message, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.messages[id])
	}
	return out
}

// Conversation returns the thread between the two members in send order. The
// participant order does not matter.
func (r *MessageRegistry) Conversation(userID1, userID2 string) []domain.Message {
	key := domain.ConversationKey(userID1, userID2)
	r.mu.RLock()
	defer r.mu.RUnlock()
	thread := r.threads[key]
	out := make([]domain.Message, len(thread))
	copy(out, thread)
	return out
}

// MarkRead flags the message with the given id as read.
func (r *MessageRegistry) MarkRead(id string) (domain.Message, error) {
	msg, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	msg.MarkRead()
	return msg, nil
}

// UnreadFor returns the unread messages addressed to the given member, in
// send order.
func (r *MessageRegistry) UnreadFor(userID string) []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Message
	for _, id := range r.order {
		msg := r.messages[id]
		if receiver := msg.Receiver(); receiver != nil && receiver.ID() == userID && !msg.Read() {
			out = append(out, msg)
		}
	}
	return out
}

// UnreadCountFor returns the number of unread messages addressed to the member.
func (r *MessageRegistry) UnreadCountFor(userID string) int {
	return len(r.UnreadFor(userID))
}
