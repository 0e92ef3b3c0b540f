package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures the runtime configuration for the SignCircle backend service.
type Config struct {
	AppPort      int
	DatabaseURL  string
	MigrationDir string
	LogLevel     string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	AuthRateLimit  int
	AuthRateWindow time.Duration
	AuthRateBurst  int

	ObjectStore ObjectStoreConfig
}

// ObjectStoreConfig targets the S3-compatible store holding post and video
// media. An empty bucket disables media uploads.
type ObjectStoreConfig struct {
	Bucket   string
	Region   string
	Endpoint string
	BaseURL  string
}

// Load reads configuration from environment variables, applying sensible
// defaults for local development while allowing overrides through environment
// variables. An empty SIGNCIRCLE_DATABASE_URL keeps the service fully
// in-memory.
func Load() (Config, error) {
	cfg := Config{
		AppPort:      getInt("SIGNCIRCLE_PORT", 8080),
		DatabaseURL:  getString("SIGNCIRCLE_DATABASE_URL", ""),
		MigrationDir: getString("SIGNCIRCLE_MIGRATIONS", "migrations"),
		LogLevel:     getString("SIGNCIRCLE_LOG_LEVEL", "info"),

		AccessTokenTTL:  getDuration("SIGNCIRCLE_ACCESS_TTL", 15*time.Minute),
		RefreshTokenTTL: getDuration("SIGNCIRCLE_REFRESH_TTL", 24*time.Hour),

		AuthRateLimit:  getInt("SIGNCIRCLE_AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getDuration("SIGNCIRCLE_AUTH_RATE_WINDOW", time.Minute),
		AuthRateBurst:  getInt("SIGNCIRCLE_AUTH_RATE_BURST", 5),

		ObjectStore: ObjectStoreConfig{
			Bucket:   getString("SIGNCIRCLE_MEDIA_BUCKET", ""),
			Region:   getString("SIGNCIRCLE_MEDIA_REGION", "us-east-1"),
			Endpoint: getString("SIGNCIRCLE_MEDIA_ENDPOINT", ""),
			BaseURL:  getString("SIGNCIRCLE_MEDIA_BASE_URL", ""),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
