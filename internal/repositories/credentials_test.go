package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryCredentialStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCredentialStore()

	cred := Credential{
		UserID:       uuid.NewString(),
		Handle:       "maya_signs",
		Email:        "maya@example.com",
		PasswordHash: "bcrypt-hash",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := store.Create(ctx, cred); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	byHandle, err := store.FindByHandle(ctx, "Maya_Signs")
	if err != nil {
		t.Fatalf("find by handle: %v", err)
	}
	if byHandle.UserID != cred.UserID {
		t.Fatalf("expected user %s, got %s", cred.UserID, byHandle.UserID)
	}

	byEmail, err := store.FindByEmail(ctx, "MAYA@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.UserID != cred.UserID {
		t.Fatalf("expected user %s, got %s", cred.UserID, byEmail.UserID)
	}

	if _, err := store.FindByHandle(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown handle, got %v", err)
	}
}

func TestMemoryCredentialStore_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCredentialStore()

	first := Credential{
		UserID:       uuid.NewString(),
		Handle:       "maya_signs",
		Email:        "maya@example.com",
		PasswordHash: "hash",
	}
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	cases := []struct {
		name string
		cred Credential
	}{
		{"same handle", Credential{UserID: uuid.NewString(), Handle: "Maya_Signs", Email: "other@example.com"}},
		{"same email", Credential{UserID: uuid.NewString(), Handle: "other", Email: "maya@example.com"}},
		{"same user id", Credential{UserID: first.UserID, Handle: "third", Email: "third@example.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Create(ctx, tc.cred); !errors.Is(err, ErrConflict) {
				t.Fatalf("expected ErrConflict, got %v", err)
			}
		})
	}
}

func TestMemoryCredentialStore_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCredentialStore()

	cred := Credential{
		UserID:       uuid.NewString(),
		Handle:       "maya_signs",
		Email:        "maya@example.com",
		PasswordHash: "old-hash",
	}
	if err := store.Create(ctx, cred); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	if err := store.UpdatePassword(ctx, cred.UserID, "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	loaded, err := store.FindByHandle(ctx, cred.Handle)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if loaded.PasswordHash != "new-hash" {
		t.Fatalf("expected rotated hash, got %q", loaded.PasswordHash)
	}

	if err := store.UpdatePassword(ctx, uuid.NewString(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}
