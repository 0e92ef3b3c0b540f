package registry

import (
	"fmt"
	"sync"

	"github.com/signcircle/backend/internal/domain"
)

// FriendshipRegistry owns the canonical friendship collection.
type FriendshipRegistry struct {
	mu          sync.RWMutex
	friendships map[string]*domain.Friendship
	order       []string
}

// NewFriendshipRegistry constructs an empty friendship registry.
func NewFriendshipRegistry() *FriendshipRegistry {
	return &FriendshipRegistry{friendships: make(map[string]*domain.Friendship)}
}

// Request creates a pending friendship between the two members, validates it,
// and registers it.
func (r *FriendshipRegistry) Request(user1, user2 domain.User) (*domain.Friendship, error) {
	friendship := domain.NewFriendship(domain.Record{
		"user1":  user1,
		"user2":  user2,
		"status": string(domain.FriendshipPending),
	})
	if err := friendship.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.friendships[friendship.ID()]; exists {
		return nil, fmt.Errorf("friendship %s: %w", friendship.ID(), ErrConflict)
	}
	r.friendships[friendship.ID()] = friendship
	r.order = append(r.order, friendship.ID())
	return friendship, nil
}

// Restore registers a friendship rebuilt from an archived record, keeping
// its id and status. "user1" and "user2" must hold live User references.
func (r *FriendshipRegistry) Restore(rec domain.Record) (*domain.Friendship, error) {
	friendship := domain.NewFriendship(rec)
	if err := friendship.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.friendships[friendship.ID()]; exists {
		return nil, fmt.Errorf("friendship %s: %w", friendship.ID(), ErrConflict)
	}
	r.friendships[friendship.ID()] = friendship
	r.order = append(r.order, friendship.ID())
	return friendship, nil
}

// Get returns the friendship with the given id.
func (r *FriendshipRegistry) Get(id string) (*domain.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	friendship, ok := r.friendships[id]
	if !ok {
		return nil, fmt.Errorf("friendship %s: %w", id, ErrNotFound)
	}
	return friendship, nil
}

// All returns a snapshot of every friendship in insertion order.
func (r *FriendshipRegistry) All() []*domain.Friendship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Friendship, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.friendships[id])
	}
	return out
}

// Accept transitions the friendship to accepted. ErrBadTransition when the
// request is not pending.
func (r *FriendshipRegistry) Accept(id string) (*domain.Friendship, error) {
	friendship, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if !friendship.Accept() {
		return nil, fmt.Errorf("accept friendship %s from %q: %w", id, friendship.Status(), ErrBadTransition)
	}
	return friendship, nil
}

// Decline transitions the friendship to declined. ErrBadTransition when the
// request is not pending.
func (r *FriendshipRegistry) Decline(id string) (*domain.Friendship, error) {
	friendship, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if !friendship.Decline() {
		return nil, fmt.Errorf("decline friendship %s from %q: %w", id, friendship.Status(), ErrBadTransition)
	}
	return friendship, nil
}

// Block forces the friendship into the blocked state.
func (r *FriendshipRegistry) Block(id string) (*domain.Friendship, error) {
	friendship, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	friendship.Block()
	return friendship, nil
}

// Unblock lifts a block, restoring the accepted state. ErrBadTransition when
// the friendship is not blocked.
func (r *FriendshipRegistry) Unblock(id string) (*domain.Friendship, error) {
	friendship, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if !friendship.Unblock() {
		return nil, fmt.Errorf("unblock friendship %s from %q: %w", id, friendship.Status(), ErrBadTransition)
	}
	return friendship, nil
}

// FriendsOf returns the accepted friendships involving the given member, in
// insertion order.
func (r *FriendshipRegistry) FriendsOf(userID string) []*domain.Friendship {
	var out []*domain.Friendship
	for _, friendship := range r.All() {
		if friendship.Status() == domain.FriendshipAccepted && friendship.Involves(userID) {
			out = append(out, friendship)
		}
	}
	return out
}

// PendingFor returns pending requests addressed to the given member.
func (r *FriendshipRegistry) PendingFor(userID string) []*domain.Friendship {
	var out []*domain.Friendship
	for _, friendship := range r.All() {
		if user2 := friendship.User2(); user2 != nil && user2.ID() == userID && friendship.IsPending() {
			out = append(out, friendship)
		}
	}
	return out
}

// AreFriends reports whether an accepted friendship connects the two members.
func (r *FriendshipRegistry) AreFriends(userID1, userID2 string) bool {
	for _, friendship := range r.All() {
		if friendship.Status() == domain.FriendshipAccepted &&
			friendship.Involves(userID1) && friendship.Involves(userID2) {
			return true
		}
	}
	return false
}
