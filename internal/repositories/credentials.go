package repositories

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Credential holds the login material for a member. Profile data lives in the
// user registry; only what is needed to authenticate is stored here.
type Credential struct {
	UserID       string
	Handle       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CredentialStore defines the data access contract for login credentials.
type CredentialStore interface {
	Create(ctx context.Context, cred Credential) error
	FindByHandle(ctx context.Context, handle string) (Credential, error)
	FindByEmail(ctx context.Context, email string) (Credential, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// MemoryCredentialStore keeps credentials in process memory. It backs the
// service when no database is configured.
type MemoryCredentialStore struct {
	mu       sync.RWMutex
	byUserID map[string]Credential
	byHandle map[string]string
	byEmail  map[string]string
}

// NewMemoryCredentialStore constructs an empty in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byUserID: make(map[string]Credential),
		byHandle: make(map[string]string),
		byEmail:  make(map[string]string),
	}
}

// Create stores a new credential, enforcing handle and email uniqueness.
func (s *MemoryCredentialStore) Create(_ context.Context, cred Credential) error {
	handleKey := normalizeKey(cred.Handle)
	emailKey := normalizeKey(cred.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUserID[cred.UserID]; exists {
		return ErrConflict
	}
	if _, exists := s.byHandle[handleKey]; exists {
		return ErrConflict
	}
	if _, exists := s.byEmail[emailKey]; exists {
		return ErrConflict
	}

	s.byUserID[cred.UserID] = cred
	s.byHandle[handleKey] = cred.UserID
	s.byEmail[emailKey] = cred.UserID
	return nil
}

// FindByHandle fetches a credential by its handle, case-insensitively.
func (s *MemoryCredentialStore) FindByHandle(_ context.Context, handle string) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byHandle[normalizeKey(handle)]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return s.byUserID[userID], nil
}

// FindByEmail fetches a credential by its email address, case-insensitively.
func (s *MemoryCredentialStore) FindByEmail(_ context.Context, email string) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[normalizeKey(email)]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return s.byUserID[userID], nil
}

// UpdatePassword rotates the stored password hash for a member.
func (s *MemoryCredentialStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byUserID[userID]
	if !ok {
		return ErrNotFound
	}

	cred.PasswordHash = passwordHash
	cred.UpdatedAt = time.Now().UTC()
	s.byUserID[userID] = cred
	return nil
}

func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

var _ CredentialStore = (*MemoryCredentialStore)(nil)
