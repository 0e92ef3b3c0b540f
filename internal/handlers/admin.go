package handlers

import (
	"net/http"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
)

// AdminHandler exposes operational endpoints.
type AdminHandler struct {
	Users       UserDirectory
	Posts       PostBoard
	Messages    Messenger
	Library     VideoLibrary
	Friendships FriendshipLedger
	Archive     Archivist
}

// Snapshot handles /api/v1/admin/snapshot. GET returns a serialized dump of
// every registry; POST additionally persists the dump to the snapshot
// archive when one is configured.
func (h AdminHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	users := h.Users.All()
	posts := h.Posts.All()
	messages := h.Messages.All()
	videos := h.Library.AllVideos()
	courses := h.Library.AllCourses()
	friendships := h.Friendships.All()

	if r.Method == http.MethodPost {
		if h.Archive == nil {
			respondJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"error": "snapshot archive is not configured"})
			return
		}
		persisted := 0
		for _, u := range users {
			archiveSave(ctx, h.Archive, "users", u)
			persisted++
		}
		for _, v := range videos {
			archiveSave(ctx, h.Archive, "videos", v)
			persisted++
		}
		for _, c := range courses {
			archiveSave(ctx, h.Archive, "courses", c)
			persisted++
		}
		for _, p := range posts {
			archiveSave(ctx, h.Archive, "posts", p)
			persisted++
		}
		for _, m := range messages {
			archiveSave(ctx, h.Archive, "messages", m)
			persisted++
		}
		for _, f := range friendships {
			archiveSave(ctx, h.Archive, "friendships", f)
			persisted++
		}
		logger.Info("snapshot persisted", "entities", persisted)
	}

	courseRecords := make([]domain.Record, 0, len(courses))
	for _, c := range courses {
		courseRecords = append(courseRecords, c.Serialize())
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"users":       serializeUsers(users),
		"posts":       serializePosts(posts),
		"messages":    serializeMessages(messages),
		"videos":      serializeVideos(videos),
		"courses":     courseRecords,
		"friendships": serializeFriendships(friendships),
	})
}
