package testsupport

import (
	"path/filepath"
	"testing"

	"reelpool/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithContentStore points the test config at a content-planning endpoint.
func WithContentStore(url, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ContentStore.URL = url
		b.cfg.ContentStore.APIKey = apiKey
	}
}

// WithPublishConcurrency overrides the publish worker count.
func WithPublishConcurrency(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Publish.Concurrency = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
