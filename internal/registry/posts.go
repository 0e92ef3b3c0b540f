package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signcircle/backend/internal/domain"
)

// Post type discriminators accepted by Create.
const (
	PostTypeRegular = "regular"
	PostTypeVideo   = "video"
)

// PostRegistry owns the canonical in-memory post collection.
type PostRegistry struct {
	mu    sync.RWMutex
	posts map[string]domain.Post
	order []string
}

// NewPostRegistry constructs an empty post registry.
func NewPostRegistry() *PostRegistry {
	return &PostRegistry{posts: make(map[string]domain.Post)}
}

// Create builds the post variant selected by postType, validates it, and
// registers it. Unknown discriminators fall back to a regular text post.
func (r *PostRegistry) Create(rec domain.Record, postType string) (domain.Post, error) {
	var post domain.Post
	switch postType {
	case PostTypeVideo:
		post = domain.NewVideoPost(rec)
	default:
		post = domain.NewTextPost(rec)
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.posts[post.ID()]; exists {
		return nil, fmt.Errorf("post %s: %w", post.ID(), ErrConflict)
	}
	r.posts[post.ID()] = post
	r.order = append(r.order, post.ID())
	return post, nil
}

// Get returns the post with the given id.
func (r *PostRegistry) Get(id string) (domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return post, nil
}

// All returns a snapshot of every post in insertion order.
func (r *PostRegistry) All() []domain.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Post, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.posts[id])
	}
	return out
}

// ByAuthor returns posts authored by the given member, in insertion order.
func (r *PostRegistry) ByAuthor(userID string) []domain.Post {
	var out []domain.Post
	for _, post := range r.All() {
		if author := post.Author(); author != nil && author.ID() == userID {
			out = append(out, post)
		}
	}
	return out
}

// Delete removes the post with the given id.
func (r *PostRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	delete(r.posts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Like increments the like counter of the post with the given id.
func (r *PostRegistry) Like(id string) (domain.Post, error) {
	post, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	post.Like()
	return post, nil
}

// Unlike decrements the like counter, flooring at zero.
func (r *PostRegistry) Unlike(id string) (domain.Post, error) {
	post, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	post.Unlike()
	return post, nil
}

// AddComment increments the comment counter of the post with the given id.
func (r *PostRegistry) AddComment(id string) (domain.Post, error) {
	post, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	post.AddComment()
	return post, nil
}

// Share increments the share counter of the post with the given id.
func (r *PostRegistry) Share(id string) (domain.Post, error) {
	post, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	post.Share()
	return post, nil
}

// Top returns up to limit posts ordered by descending engagement score. Ties
// keep their insertion order so results stay deterministic. A non-positive
// limit falls back to DefaultTopLimit.
func (r *PostRegistry) Top(limit int) []domain.Post {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	posts := r.All()
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].EngagementScore() > posts[j].EngagementScore()
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}
