package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the settings that may come from the environment instead
// of the config file. Empty values leave the file value in place.
type envOverrides struct {
	ContentStoreURL    string `env:"REELPOOL_CONTENT_STORE_URL"`
	ContentStoreAPIKey string `env:"REELPOOL_CONTENT_STORE_API_KEY"`
	LogLevel           string `env:"REELPOOL_LOG_LEVEL"`
}

func (c *Config) normalize() error {
	if err := c.applyEnv(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeContentStore()
	c.normalizePublish()
	c.normalizeInventory()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if v := strings.TrimSpace(overrides.ContentStoreURL); v != "" {
		c.ContentStore.URL = v
	}
	if v := strings.TrimSpace(overrides.ContentStoreAPIKey); v != "" {
		c.ContentStore.APIKey = v
	}
	if v := strings.TrimSpace(overrides.LogLevel); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeContentStore() {
	c.ContentStore.URL = strings.TrimRight(strings.TrimSpace(c.ContentStore.URL), "/")
	c.ContentStore.APIKey = strings.TrimSpace(c.ContentStore.APIKey)
	c.ContentStore.Schema = strings.TrimSpace(c.ContentStore.Schema)
	if c.ContentStore.Schema == "" {
		c.ContentStore.Schema = defaultContentStoreSchema
	}
	c.ContentStore.Table = strings.TrimSpace(c.ContentStore.Table)
	if c.ContentStore.Table == "" {
		c.ContentStore.Table = defaultContentStoreTable
	}
	if c.ContentStore.RequestTimeout <= 0 {
		c.ContentStore.RequestTimeout = defaultContentStoreTimeout
	}
}

func (c *Config) normalizePublish() {
	if c.Publish.Concurrency <= 0 {
		c.Publish.Concurrency = defaultPublishConcurrency
	}
	if c.Publish.WriteTimeout <= 0 {
		c.Publish.WriteTimeout = defaultPublishWriteTimeout
	}
}

func (c *Config) normalizeInventory() {
	if c.Inventory.ClaimTimeout <= 0 {
		c.Inventory.ClaimTimeout = defaultInventoryClaimTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
