package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/signcircle/backend/internal/auth"
	"github.com/signcircle/backend/internal/domain"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresCredentialStore_CreateFindAndRotate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	store := NewPostgresCredentialStore(testPool)

	cred := Credential{
		UserID:       uuid.NewString(),
		Handle:       "maya_signs",
		Email:        "maya@example.com",
		PasswordHash: "secret-hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := store.Create(ctx, cred); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	dup := Credential{
		UserID:       uuid.NewString(),
		Handle:       cred.Handle,
		Email:        "other@example.com",
		PasswordHash: "another-hash",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := store.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate handle, got %v", err)
	}

	fetched, err := store.FindByHandle(ctx, "MAYA_SIGNS")
	if err != nil {
		t.Fatalf("find by handle: %v", err)
	}
	if fetched.UserID != cred.UserID || fetched.PasswordHash != cred.PasswordHash {
		t.Fatalf("unexpected credential fetched: %+v", fetched)
	}

	fetched, err = store.FindByEmail(ctx, cred.Email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if fetched.UserID != cred.UserID {
		t.Fatalf("expected user %s, got %s", cred.UserID, fetched.UserID)
	}

	if err := store.UpdatePassword(ctx, cred.UserID, "rotated-hash"); err != nil {
		t.Fatalf("rotate password: %v", err)
	}

	fetched, err = store.FindByHandle(ctx, cred.Handle)
	if err != nil {
		t.Fatalf("find after rotation: %v", err)
	}
	if fetched.PasswordHash != "rotated-hash" {
		t.Fatalf("expected rotated hash, got %q", fetched.PasswordHash)
	}

	if err := store.UpdatePassword(ctx, uuid.NewString(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound rotating unknown user, got %v", err)
	}

	if _, err := store.FindByHandle(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown handle, got %v", err)
	}
}

func TestPostgresSessionStore_SaveFindAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	store := NewPostgresSessionStore(testPool)
	expires := time.Now().UTC().Add(24 * time.Hour)
	session := auth.Session{
		RefreshToken: uuid.NewString(),
		UserID:       uuid.NewString(),
		ExpiresAt:    expires,
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if loaded.UserID != session.UserID || !timesClose(loaded.ExpiresAt, expires.UTC(), time.Millisecond) {
		t.Fatalf("unexpected session loaded: %+v", loaded)
	}

	updated := session
	updated.ExpiresAt = expires.Add(48 * time.Hour)
	if err := store.Save(ctx, updated); err != nil {
		t.Fatalf("update session: %v", err)
	}

	loaded, err = store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find session after update: %v", err)
	}
	if !timesClose(loaded.ExpiresAt, updated.ExpiresAt.UTC(), time.Millisecond) {
		t.Fatalf("expected updated expiry, got %v", loaded.ExpiresAt)
	}

	if err := store.Delete(ctx, session.RefreshToken); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := store.Find(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}

	if err := store.Delete(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound deleting twice, got %v", err)
	}
}

func TestPostgresSnapshotArchive_SaveLoadAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	archive := NewPostgresSnapshotArchive(testPool)

	first := domain.NewMember(domain.Record{
		"name":   "Maya Chen",
		"handle": "maya_signs",
		"email":  "maya@example.com",
	})
	second := domain.NewMember(domain.Record{
		"name":   "Jordan Lee",
		"handle": "jordan_asl",
		"email":  "jordan@example.com",
	})

	if err := archive.Save(ctx, "users", first.ID(), first.Serialize()); err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}
	if err := archive.Save(ctx, "users", second.ID(), second.Serialize()); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	records, err := archive.LoadKind(ctx, "users")
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	restored := domain.NewMember(records[0])
	if restored.ID() != first.ID() {
		t.Fatalf("expected first archived record to come back first, got %s", restored.ID())
	}
	if restored.Handle() != first.Handle() {
		t.Fatalf("expected handle %q, got %q", first.Handle(), restored.Handle())
	}
	if !timesClose(restored.CreatedAt(), first.CreatedAt(), time.Millisecond) {
		t.Fatalf("expected createdAt to survive the round trip, got %v", restored.CreatedAt())
	}

	// Re-saving an entity keeps its archive position.
	first.SetBio("Teaching ASL since 2019")

	if err := archive.Save(ctx, "users", first.ID(), first.Serialize()); err != nil {
		t.Fatalf("re-save snapshot: %v", err)
	}

	records, err = archive.LoadKind(ctx, "users")
	if err != nil {
		t.Fatalf("load after re-save: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after re-save, got %d", len(records))
	}
	updated := domain.NewMember(records[0])
	if updated.ID() != first.ID() {
		t.Fatalf("expected re-saved record to keep its position, got %s first", updated.ID())
	}
	if updated.Bio() != "Teaching ASL since 2019" {
		t.Fatalf("expected re-saved payload to persist, got bio %q", updated.Bio())
	}

	if err := archive.Delete(ctx, "users", first.ID()); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}

	records, err = archive.LoadKind(ctx, "users")
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after delete, got %d", len(records))
	}

	if err := archive.Delete(ctx, "users", first.ID()); err != nil {
		t.Fatalf("expected deleting absent snapshot to be a no-op, got %v", err)
	}

	other, err := archive.LoadKind(ctx, "posts")
	if err != nil {
		t.Fatalf("load empty kind: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no records for empty kind, got %d", len(other))
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE credentials, sessions, snapshots"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func timesClose(a, b time.Time, delta time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= delta
}
