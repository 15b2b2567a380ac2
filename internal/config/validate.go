package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateContentStore(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateContentStore() error {
	if c.ContentStore.URL == "" {
		return nil
	}
	parsed, err := url.Parse(c.ContentStore.URL)
	if err != nil {
		return fmt.Errorf("content_store.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("content_store.url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("content_store.url must include a host")
	}
	if c.ContentStore.APIKey == "" {
		return errors.New("content_store.api_key must be set when content_store.url is configured (or set REELPOOL_CONTENT_STORE_API_KEY)")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if c.Publish.Concurrency > maxPublishConcurrency {
		return fmt.Errorf("publish.concurrency must be at most %d, got %d", maxPublishConcurrency, c.Publish.Concurrency)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
