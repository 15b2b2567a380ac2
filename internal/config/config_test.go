package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelpool/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "reelpool")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "pool.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.ContentStoreConfigured() {
		t.Fatal("expected content store to be unconfigured by default")
	}
	if cfg.Publish.Concurrency != 5 {
		t.Fatalf("expected default publish concurrency 5, got %d", cfg.Publish.Concurrency)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REELPOOL_CONTENT_STORE_API_KEY", "env-key")
	t.Setenv("REELPOOL_LOG_LEVEL", "DEBUG")

	dir := t.TempDir()
	path := filepath.Join(dir, "reelpool.toml")
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.ContentStore.URL = "https://example.supabase.co/rest/v1/"
	cfg.Publish.Concurrency = 8
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit path to resolve, got %q exists=%v", resolved, exists)
	}
	if loaded.ContentStore.URL != "https://example.supabase.co/rest/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", loaded.ContentStore.URL)
	}
	if loaded.ContentStore.APIKey != "env-key" {
		t.Fatalf("expected api key from env, got %q", loaded.ContentStore.APIKey)
	}
	if loaded.Logging.Level != "debug" {
		t.Fatalf("expected env log level normalized, got %q", loaded.Logging.Level)
	}
	if loaded.Publish.Concurrency != 8 {
		t.Fatalf("expected publish concurrency from file, got %d", loaded.Publish.Concurrency)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "content store without key",
			mutate: func(c *config.Config) { c.ContentStore.URL = "https://example.com" },
			want:   "content_store.api_key",
		},
		{
			name: "content store bad scheme",
			mutate: func(c *config.Config) {
				c.ContentStore.URL = "ftp://example.com"
				c.ContentStore.APIKey = "k"
			},
			want: "http or https",
		},
		{
			name:   "concurrency too high",
			mutate: func(c *config.Config) { c.Publish.Concurrency = 100 },
			want:   "publish.concurrency",
		},
		{
			name:   "unknown log format",
			mutate: func(c *config.Config) { c.Logging.Format = "xml" },
			want:   "logging.format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample to load, exists=%v err=%v", exists, err)
	}
}
