package app

import (
	"context"
	"fmt"
	"time"

	"github.com/signcircle/backend/internal/auth"
	"github.com/signcircle/backend/internal/config"
	"github.com/signcircle/backend/internal/db"
	"github.com/signcircle/backend/internal/handlers"
	"github.com/signcircle/backend/internal/middleware"
	"github.com/signcircle/backend/internal/registry"
	"github.com/signcircle/backend/internal/repositories"
	"github.com/signcircle/backend/internal/storage"
)

// buildDependencies assembles the handler collaborators from configuration.
// A nil pool keeps credentials, sessions and snapshots in memory, which is
// how local development and most tests run.
func buildDependencies(ctx context.Context, cfg config.Config, pool db.Pool, set *registry.Set) (handlers.Dependencies, error) {
	var (
		credentials  handlers.CredentialStore
		sessionStore auth.SessionStore
		archive      handlers.Archivist
	)

	if pool != nil {
		credentials = repositories.NewPostgresCredentialStore(pool)
		sessionStore = repositories.NewPostgresSessionStore(pool)
		archive = repositories.NewPostgresSnapshotArchive(pool)
	} else {
		credentials = repositories.NewMemoryCredentialStore()
		sessionStore = auth.NewInMemorySessionStore()
	}

	sessions := auth.NewManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore)

	limiter := middleware.NewKeyRateLimiter(
		cfg.AuthRateLimit,
		cfg.AuthRateWindow,
		cfg.AuthRateBurst,
		10*time.Minute,
	)

	var media handlers.MediaStorage
	if cfg.ObjectStore.Bucket != "" {
		s3, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("configure media storage: %w", err)
		}
		media = s3
	}

	return handlers.Dependencies{
		Credentials: credentials,
		Sessions:    sessions,
		Users:       set.Users,
		Posts:       set.Posts,
		Messages:    set.Messages,
		Library:     set.Videos,
		Friendships: set.Friendships,
		Media:       media,
		Archive:     archive,
		AuthLimiter: limiter,
	}, nil
}
