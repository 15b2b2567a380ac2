package config

const (
	defaultDataDir                = "~/.local/share/reelpool"
	defaultLogDir                 = "~/.local/share/reelpool/logs"
	defaultContentStoreSchema     = "public"
	defaultContentStoreTable      = "slots"
	defaultContentStoreTimeout    = 15
	defaultPublishConcurrency     = 5
	defaultPublishWriteTimeout    = 30
	defaultInventoryClaimTimeout  = 300
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	maxPublishConcurrency         = 32
	defaultConfigRelativeLocation = "~/.config/reelpool/config.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		ContentStore: ContentStore{
			Schema:         defaultContentStoreSchema,
			Table:          defaultContentStoreTable,
			RequestTimeout: defaultContentStoreTimeout,
		},
		Publish: Publish{
			Concurrency:  defaultPublishConcurrency,
			WriteTimeout: defaultPublishWriteTimeout,
		},
		Inventory: Inventory{
			ClaimTimeout: defaultInventoryClaimTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
