package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/signcircle/backend/internal/auth"
	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/registry"
	"github.com/signcircle/backend/internal/repositories"
)

// recordingArchive captures snapshot writes for assertions.
type recordingArchive struct {
	mu    sync.Mutex
	saved map[string][]string
}

func newRecordingArchive() *recordingArchive {
	return &recordingArchive{saved: make(map[string][]string)}
}

func (a *recordingArchive) Save(_ context.Context, kind, id string, _ domain.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved[kind] = append(a.saved[kind], id)
	return nil
}

func (a *recordingArchive) Delete(_ context.Context, kind, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.saved[kind][:0]
	for _, existing := range a.saved[kind] {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	a.saved[kind] = kept
	return nil
}

func (a *recordingArchive) count(kind string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.saved[kind])
}

type testEnv struct {
	mux     *http.ServeMux
	set     *registry.Set
	creds   *repositories.MemoryCredentialStore
	archive *recordingArchive
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	set := registry.NewSet()
	creds := repositories.NewMemoryCredentialStore()
	archive := newRecordingArchive()
	sessions := auth.NewManager(time.Minute, time.Hour, auth.NewInMemorySessionStore())

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Credentials: creds,
		Sessions:    sessions,
		Users:       set.Users,
		Posts:       set.Posts,
		Messages:    set.Messages,
		Library:     set.Videos,
		Friendships: set.Friendships,
		Archive:     archive,
	})

	return &testEnv{mux: mux, set: set, creds: creds, archive: archive}
}

func (e *testEnv) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func (e *testEnv) createUser(t *testing.T, name, handle string) domain.User {
	t.Helper()
	user, err := e.set.Users.Create(domain.Record{
		"name":   name,
		"handle": handle,
		"email":  handle + "@example.com",
	}, registry.UserTypeRegular)
	if err != nil {
		t.Fatalf("create user %s: %v", handle, err)
	}
	return user
}

func (e *testEnv) createVideo(t *testing.T, title, category string) *domain.Video {
	t.Helper()
	video, err := e.set.Videos.CreateVideo(domain.Record{
		"title":    title,
		"category": category,
		"duration": 120,
	})
	if err != nil {
		t.Fatalf("create video %s: %v", title, err)
	}
	return video
}
