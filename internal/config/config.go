// Package config loads daemon configuration from TICKLIST_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // TICKLIST_DATABASE_URL (required)
	HTTPAddr    string // TICKLIST_HTTP_ADDR (default ":8080")
	NATSURL     string // TICKLIST_NATS_URL (optional, empty = no events)
	AuthToken   string // TICKLIST_AUTH_TOKEN (optional, empty = auth disabled)

	// Sync settings
	SyncInterval   time.Duration // TICKLIST_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // TICKLIST_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // TICKLIST_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // TICKLIST_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // TICKLIST_SYNC_S3_KEY (default "ticklist/backup.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("TICKLIST_DATABASE_URL"),
		HTTPAddr:       envOrDefault("TICKLIST_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("TICKLIST_NATS_URL"),
		AuthToken:      os.Getenv("TICKLIST_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("TICKLIST_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("TICKLIST_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("TICKLIST_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("TICKLIST_SYNC_S3_KEY", "ticklist/backup.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TICKLIST_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("TICKLIST_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("TICKLIST_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
