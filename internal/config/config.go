package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains local state directories.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// ContentStore contains connection settings for the content-planning store
// that owns slot records.
type ContentStore struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	Schema         string `toml:"schema"`
	Table          string `toml:"table"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Publish contains settings for bulk slot writes.
type Publish struct {
	Concurrency  int `toml:"concurrency"`
	WriteTimeout int `toml:"write_timeout"`
}

// Inventory contains settings for pool claims.
type Inventory struct {
	ClaimTimeout int `toml:"claim_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelpool.
//
// Configuration sections by subsystem:
//   - Paths: local database and log directories
//   - ContentStore: PostgREST endpoint holding slot records
//   - Publish: worker pool size and per-write timeout
//   - Inventory: stale claim timeout
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	ContentStore ContentStore `toml:"content_store"`
	Publish      Publish      `toml:"publish"`
	Inventory    Inventory    `toml:"inventory"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigRelativeLocation)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %q not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigRelativeLocation)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelpool.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the pool video database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "pool.db")
}

// ContentStoreConfigured reports whether slot reads and writes can reach an external store.
func (c *Config) ContentStoreConfigured() bool {
	return strings.TrimSpace(c.ContentStore.URL) != ""
}

// ContentStoreTimeout returns the per-request timeout for the content-planning store.
func (c *Config) ContentStoreTimeout() time.Duration {
	return time.Duration(c.ContentStore.RequestTimeout) * time.Second
}

// PublishWriteTimeout returns the per-write timeout applied by the publish coordinator.
func (c *Config) PublishWriteTimeout() time.Duration {
	return time.Duration(c.Publish.WriteTimeout) * time.Second
}

// ClaimTimeout returns how long a claim may stay unbound before it is reclaimed.
func (c *Config) ClaimTimeout() time.Duration {
	return time.Duration(c.Inventory.ClaimTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
