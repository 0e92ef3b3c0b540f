package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
	"github.com/signcircle/backend/internal/registry"
)

// PostHandler implements the community feed endpoints.
type PostHandler struct {
	Posts   PostBoard
	Users   UserDirectory
	Archive Archivist
}

// Create handles POST /api/v1/posts requests.
func (h PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid post payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	author, err := h.Users.Get(strings.TrimSpace(req.AuthorID))
	if err != nil {
		logger.Warn("post author lookup failed", "authorId", req.AuthorID, "error", err)
		respondError(ctx, w, err)
		return
	}

	rec := domain.Record{
		"author":  author,
		"content": req.Content,
	}
	if req.IsPublic != nil {
		rec["isPublic"] = *req.IsPublic
	}
	if req.Type == registry.PostTypeVideo {
		rec["videoUrl"] = req.VideoURL
		rec["thumbnail"] = req.Thumbnail
		rec["duration"] = req.Duration
	}

	post, err := h.Posts.Create(rec, req.Type)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "posts", post)
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"post": post.Serialize()})
}

// List handles GET /api/v1/posts. Supports ?author= to narrow the feed.
func (h PostHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var posts []domain.Post
	if author := strings.TrimSpace(r.URL.Query().Get("author")); author != "" {
		posts = h.Posts.ByAuthor(author)
	} else {
		posts = h.Posts.All()
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"posts": serializePosts(posts)})
}

// Top handles GET /api/v1/posts/top?limit=N, ranked by engagement.
func (h PostHandler) Top(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts := h.Posts.Top(limit)

	respondJSON(ctx, w, http.StatusOK, map[string]any{"posts": serializePosts(posts)})
}

// Get handles GET /api/v1/posts/{id}.
func (h PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	post, err := h.Posts.Get(r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"post": post.Serialize()})
}

// React handles POST /api/v1/posts/{id}/{action} where action is one of
// like, unlike, comment, or share.
func (h PostHandler) React(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	var (
		post domain.Post
		err  error
	)
	switch r.PathValue("action") {
	case "like":
		post, err = h.Posts.Like(id)
	case "unlike":
		post, err = h.Posts.Unlike(id)
	case "comment":
		post, err = h.Posts.AddComment(id)
	case "share":
		post, err = h.Posts.Share(id)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "unknown reaction"})
		return
	}
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveSave(ctx, h.Archive, "posts", post)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"post": post.Serialize()})
}

// Delete handles DELETE /api/v1/posts/{id}.
func (h PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.Posts.Delete(id); err != nil {
		respondError(ctx, w, err)
		return
	}

	archiveDelete(ctx, h.Archive, "posts", id)
	w.WriteHeader(http.StatusNoContent)
}

type createPostRequest struct {
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	IsPublic  *bool  `json:"isPublic"`
	VideoURL  string `json:"videoUrl"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration"`
}

func serializePosts(posts []domain.Post) []domain.Record {
	records := make([]domain.Record, 0, len(posts))
	for _, p := range posts {
		records = append(records, p.Serialize())
	}
	return records
}
