// Package config loads the small set of process-wide settings the engine,
// store, and CLI need at startup: database location, log verbosity, the
// store's commit-retry policy, and the timeout the CLI applies to each
// workflow run, resume, or input command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"

	"github.com/seeflow/see/pkg/logger"
)

// Config is the fully-resolved process configuration.
type Config struct {
	DBPath           string          `koanf:"db_path"`
	LogLevel         logger.LogLevel `koanf:"log_level"`
	RetryMaxAttempts int             `koanf:"retry_max_attempts"`
	RetryBaseDelay   time.Duration   `koanf:"retry_base_delay"`
	CommandTimeout   time.Duration   `koanf:"command_timeout"`
}

// envPrefix namespaces every environment variable this process reads.
const envPrefix = "SEE_"

// Default returns the configuration used when no environment overrides are
// present.
func Default() *Config {
	return &Config{
		DBPath:           defaultDBPath(),
		LogLevel:         logger.InfoLevel,
		RetryMaxAttempts: 5,
		RetryBaseDelay:   50 * time.Millisecond,
		CommandTimeout:   5 * time.Minute,
	}
}

// defaultDBPath mirrors engine/store.DefaultDBPath's layout (`<home>/.see/audit.redb`)
// without importing the store package, keeping pkg/config free of engine
// dependencies.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".see", "audit.redb")
}

// Load resolves Config by layering environment variables (SEE_DB_PATH,
// SEE_LOG_LEVEL, SEE_RETRY_MAX_ATTEMPTS, SEE_RETRY_BASE_DELAY,
// SEE_COMMAND_TIMEOUT) over Default.
func Load() (*Config, error) {
	cfg := Default()

	k := koanf.New(".")
	provider := envprovider.Provider(".", envprovider.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return key, value
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("load environment configuration: %w", err)
	}

	if v := k.String("db_path"); v != "" {
		cfg.DBPath = v
	}
	if v := k.String("log_level"); v != "" {
		cfg.LogLevel = logger.LogLevel(v)
	}
	if v := k.String("retry_max_attempts"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse SEE_RETRY_MAX_ATTEMPTS: %w", err)
		}
		cfg.RetryMaxAttempts = n
	}
	if v := k.String("retry_base_delay"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse SEE_RETRY_BASE_DELAY: %w", err)
		}
		cfg.RetryBaseDelay = d
	}
	if v := k.String("command_timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse SEE_COMMAND_TIMEOUT: %w", err)
		}
		cfg.CommandTimeout = d
	}

	if cfg.RetryMaxAttempts < 3 {
		cfg.RetryMaxAttempts = 3
	}

	return cfg, nil
}
