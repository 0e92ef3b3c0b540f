package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/signcircle/backend/internal/domain"
)

// User type discriminators accepted by Create.
const (
	UserTypeRegular    = "regular"
	UserTypeDeaf       = "deaf"
	UserTypeInstructor = "instructor"
)

// UserRegistry owns the canonical in-memory member collection. The RWMutex
// guards the collection itself; each entity carries its own lock for field
// mutations, so concurrent requests touching the same member stay safe.
type UserRegistry struct {
	mu    sync.RWMutex
	users map[string]domain.User
	order []string
}

// NewUserRegistry constructs an empty user registry.
func NewUserRegistry() *UserRegistry {
	return &UserRegistry{users: make(map[string]domain.User)}
}

// Create builds the member variant selected by userType, validates it, and
// registers it. Unknown discriminators fall back to a regular member. On
// validation failure nothing is inserted.
func (r *UserRegistry) Create(rec domain.Record, userType string) (domain.User, error) {
	var user domain.User
	switch userType {
	case UserTypeDeaf:
		user = domain.NewDeafMember(rec)
	case UserTypeInstructor:
		user = domain.NewInstructor(rec)
	default:
		user = domain.NewMember(rec)
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID()]; exists {
		return nil, fmt.Errorf("user %s: %w", user.ID(), ErrConflict)
	}
	r.users[user.ID()] = user
	r.order = append(r.order, user.ID())
	return user, nil
}

// Get returns the member with the given id.
func (r *UserRegistry) Get(id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// All returns a snapshot of every member in insertion order. Mutating the
// returned slice does not affect the registry.
func (r *UserRegistry) All() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out
}

// Update applies the recognised keys of the given record through the member's
// validated setters. Every field is validated before any setter runs, so a
// rejected update leaves the member untouched.
func (r *UserRegistry) Update(id string, updates domain.Record) (domain.User, error) {
	user, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	name, hasName := updates["name"].(string)
	handle, hasHandle := updates["handle"].(string)

	if hasName {
		if err := domain.ValidateUserName(name); err != nil {
			return nil, err
		}
	}
	if hasHandle {
		if err := domain.ValidateUserHandle(handle); err != nil {
			return nil, err
		}
	}

	if hasName {
		if err := user.SetName(name); err != nil {
			return nil, err
		}
	}
	if hasHandle {
		if err := user.SetHandle(handle); err != nil {
			return nil, err
		}
	}
	if bio, ok := updates["bio"].(string); ok {
		user.SetBio(bio)
	}
	if avatar, ok := updates["avatar"].(string); ok {
		user.SetAvatar(avatar)
	}
	return user, nil
}

// SetOnline flips the presence flag for the member with the given id.
func (r *UserRegistry) SetOnline(id string, online bool) (domain.User, error) {
	user, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	user.SetOnline(online)
	return user, nil
}

// Delete removes the member with the given id.
func (r *UserRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	delete(r.users, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Search returns members whose name or handle contains the query,
// case-insensitively, in insertion order.
func (r *UserRegistry) Search(query string) []domain.User {
	query = strings.ToLower(query)
	var out []domain.User
	for _, user := range r.All() {
		if strings.Contains(strings.ToLower(user.Name()), query) ||
			strings.Contains(strings.ToLower(user.Handle()), query) {
			out = append(out, user)
		}
	}
	return out
}

// Online returns members currently flagged online, in insertion order.
func (r *UserRegistry) Online() []domain.User {
	var out []domain.User
	for _, user := range r.All() {
		if user.Online() {
			out = append(out, user)
		}
	}
	return out
}
