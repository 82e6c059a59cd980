package config

import (
	"testing"
	"time"
)

// allEnvVars lists every env var read by Load, cleared between tests.
var allEnvVars = []string{
	"TICKLIST_DATABASE_URL", "TICKLIST_HTTP_ADDR", "TICKLIST_NATS_URL", "TICKLIST_AUTH_TOKEN",
	"TICKLIST_SYNC_INTERVAL", "TICKLIST_SYNC_S3_BUCKET", "TICKLIST_SYNC_S3_ENDPOINT",
	"TICKLIST_SYNC_S3_REGION", "TICKLIST_SYNC_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddresses",
			env:          map[string]string{"TICKLIST_DATABASE_URL": "postgres://localhost/ticklist"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"TICKLIST_DATABASE_URL": "postgres://db:5432/ticklist",
				"TICKLIST_HTTP_ADDR":    ":3000",
				"TICKLIST_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			c, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if c.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", c.HTTPAddr, tc.wantHTTPAddr)
			}
			if c.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", c.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoad_SyncSettings(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TICKLIST_DATABASE_URL", "postgres://localhost/ticklist")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m default", c.SyncInterval)
	}
	if c.SyncS3Region != "us-east-1" {
		t.Errorf("SyncS3Region = %q", c.SyncS3Region)
	}
	if c.SyncS3Key != "ticklist/backup.jsonl" {
		t.Errorf("SyncS3Key = %q", c.SyncS3Key)
	}

	t.Setenv("TICKLIST_SYNC_INTERVAL", "45s")
	t.Setenv("TICKLIST_SYNC_S3_BUCKET", "my-bucket")
	c, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.SyncInterval != 45*time.Second {
		t.Errorf("SyncInterval = %v, want 45s", c.SyncInterval)
	}
	if c.SyncS3Bucket != "my-bucket" {
		t.Errorf("SyncS3Bucket = %q", c.SyncS3Bucket)
	}
}

func TestLoad_BadInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TICKLIST_DATABASE_URL", "postgres://localhost/ticklist")
	t.Setenv("TICKLIST_SYNC_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad interval")
	}
}
