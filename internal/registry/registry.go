// Package registry holds the in-memory collections that own every SignCircle
// entity for the lifetime of the process. One registry per entity family;
// all of them are constructed together by NewSet and injected by the
// application root, so tests get a fresh world per Set.
package registry

import "errors"

var (
	// ErrNotFound indicates the requested entity is not in the registry.
	ErrNotFound = errors.New("entity not found")
	// ErrConflict indicates an entity with the same id is already registered.
	ErrConflict = errors.New("entity already registered")
	// ErrBadTransition indicates a friendship operation was attempted from a
	// state that does not permit it.
	ErrBadTransition = errors.New("invalid status transition")
)

// DefaultTopLimit bounds top-N queries when the caller passes no limit.
const DefaultTopLimit = 10

// Set aggregates the five registries the application owns. There is exactly
// one Set per process in normal operation; nothing enforces that, which keeps
// tests trivially isolated.
type Set struct {
	Users       *UserRegistry
	Posts       *PostRegistry
	Messages    *MessageRegistry
	Videos      *VideoRegistry
	Friendships *FriendshipRegistry
}

// NewSet constructs a fresh, empty registry set.
func NewSet() *Set {
	return &Set{
		Users:       NewUserRegistry(),
		Posts:       NewPostRegistry(),
		Messages:    NewMessageRegistry(),
		Videos:      NewVideoRegistry(),
		Friendships: NewFriendshipRegistry(),
	}
}
