package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Model is the contract every SignCircle entity satisfies: stable identity,
// creation/update timestamps, self-contained validation, and serialization to
// the plain-record shape consumed by stores and renderers.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
	Serialize() Record
}

// entity carries the identity and timestamps shared by all concrete entities,
// plus the lock guarding the entity's mutable state. Embedding gives every
// variant the same mutex, so handlers serving concurrent requests can mutate
// and serialize the same entity safely. Constructing one through newEntity
// assigns a generated id when the inbound record does not supply its own.
type entity struct {
	mu        *sync.RWMutex
	id        string
	createdAt time.Time
	updatedAt time.Time
}

func newEntity(rec Record) entity {
	now := time.Now().UTC()
	e := entity{
		mu:        &sync.RWMutex{},
		id:        rec.stringOr("id", ""),
		createdAt: rec.timeOr("createdAt", now),
		updatedAt: rec.timeOr("updatedAt", now),
	}
	if e.id == "" {
		e.id = uuid.NewString()
	}
	return e
}

// ID returns the entity's opaque identifier.
func (e *entity) ID() string { return e.id }

// CreatedAt reports when the entity was first constructed. Immutable.
func (e *entity) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt reports the last mutation time.
func (e *entity) UpdatedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.updatedAt
}

// touch advances updatedAt. Every mutating method must call it after the
// mutation has been applied, while still holding the write lock.
func (e *entity) touch() {
	e.updatedAt = time.Now().UTC()
}

// baseRecord snapshots the shared fields. Callers hold at least the read lock.
func (e *entity) baseRecord() Record {
	return Record{
		"id":        e.id,
		"createdAt": e.createdAt,
		"updatedAt": e.updatedAt,
	}
}
