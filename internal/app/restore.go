package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/registry"
	"github.com/signcircle/backend/internal/repositories"
)

// restoreRegistries rebuilds the in-memory registries from archived
// snapshots. Kinds load in dependency order so nested references can be
// rebound to live entities. Individual records that fail to restore are
// logged and skipped rather than aborting startup.
func restoreRegistries(ctx context.Context, archive repositories.SnapshotArchive, set *registry.Set, logger *slog.Logger) error {
	users, err := archive.LoadKind(ctx, "users")
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	for _, rec := range users {
		if _, err := set.Users.Create(rec, discriminatorFor(recString(rec, "userType"))); err != nil {
			logger.Warn("skipping archived user", "id", recString(rec, "id"), "error", err)
		}
	}

	videos, err := archive.LoadKind(ctx, "videos")
	if err != nil {
		return fmt.Errorf("load videos: %w", err)
	}
	for _, rec := range videos {
		rebindUser(rec, "instructor", set.Users)
		if _, err := set.Videos.CreateVideo(rec); err != nil {
			logger.Warn("skipping archived video", "id", recString(rec, "id"), "error", err)
		}
	}

	courses, err := archive.LoadKind(ctx, "courses")
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}
	for _, rec := range courses {
		rebindUser(rec, "instructor", set.Users)
		rebindVideos(rec, "videos", set.Videos)
		if _, err := set.Videos.CreateCourse(rec); err != nil {
			logger.Warn("skipping archived course", "id", recString(rec, "id"), "error", err)
		}
	}

	posts, err := archive.LoadKind(ctx, "posts")
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	for _, rec := range posts {
		rebindUser(rec, "author", set.Users)
		postType := registry.PostTypeRegular
		if recString(rec, "type") == "video" {
			postType = registry.PostTypeVideo
		}
		if _, err := set.Posts.Create(rec, postType); err != nil {
			logger.Warn("skipping archived post", "id", recString(rec, "id"), "error", err)
		}
	}

	messages, err := archive.LoadKind(ctx, "messages")
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	for _, rec := range messages {
		rebindUser(rec, "sender", set.Users)
		rebindUser(rec, "receiver", set.Users)
		if _, err := set.Messages.Send(rec, recString(rec, "type")); err != nil {
			logger.Warn("skipping archived message", "id", recString(rec, "id"), "error", err)
		}
	}

	friendships, err := archive.LoadKind(ctx, "friendships")
	if err != nil {
		return fmt.Errorf("load friendships: %w", err)
	}
	for _, rec := range friendships {
		rebindUser(rec, "user1", set.Users)
		rebindUser(rec, "user2", set.Users)
		if _, err := set.Friendships.Restore(rec); err != nil {
			logger.Warn("skipping archived friendship", "id", recString(rec, "id"), "error", err)
		}
	}

	logger.Info("registries restored",
		"users", len(users),
		"videos", len(videos),
		"courses", len(courses),
		"posts", len(posts),
		"messages", len(messages),
		"friendships", len(friendships),
	)

	return nil
}

// discriminatorFor maps a serialized userType label back to the registry
// discriminator used at creation time.
func discriminatorFor(label string) string {
	switch label {
	case domain.RoleDeafMember:
		return registry.UserTypeDeaf
	case domain.RoleInstructor:
		return registry.UserTypeInstructor
	default:
		return registry.UserTypeRegular
	}
}

// recString reads a string field from an archived record.
func recString(rec domain.Record, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

// refID extracts the entity id from a serialized reference, which is either
// a nested record or a bare id string.
func refID(value any) string {
	switch v := value.(type) {
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return id
		}
	case domain.Record:
		if id, ok := v["id"].(string); ok {
			return id
		}
	case string:
		return v
	}
	return ""
}

// rebindUser swaps a serialized user reference for the live registry entity.
// Unresolvable references are cleared so validation reports them.
func rebindUser(rec domain.Record, key string, users *registry.UserRegistry) {
	id := refID(rec[key])
	if id == "" {
		delete(rec, key)
		return
	}
	user, err := users.Get(id)
	if err != nil {
		delete(rec, key)
		return
	}
	rec[key] = user
}

// rebindVideos swaps a serialized video list for live registry entities,
// dropping any that no longer exist.
func rebindVideos(rec domain.Record, key string, library *registry.VideoRegistry) {
	items, ok := rec[key].([]any)
	if !ok {
		return
	}
	live := make([]*domain.Video, 0, len(items))
	for _, item := range items {
		id := refID(item)
		if id == "" {
			continue
		}
		video, err := library.GetVideo(id)
		if err != nil {
			continue
		}
		live = append(live, video)
	}
	rec[key] = live
}
