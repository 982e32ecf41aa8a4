package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"vibescan/internal/heuristics"
	"vibescan/internal/ignore"
	"vibescan/internal/logging"
)

// FileName is the project configuration file, found at the project
// root.
const FileName = ".vibescan.toml"

// Config represents the complete vibescan configuration.
type Config struct {
	Cache      CacheConfig      `toml:"cache" mapstructure:"cache"`
	Logging    LoggingConfig    `toml:"logging" mapstructure:"logging"`
	Watch      WatchConfig      `toml:"watch" mapstructure:"watch"`
	Ignore     IgnoreConfig     `toml:"ignore" mapstructure:"ignore"`
	Heuristics HeuristicsConfig `toml:"heuristics" mapstructure:"heuristics"`
}

// CacheConfig contains cache configuration.
type CacheConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Dir     string `toml:"dir" mapstructure:"dir"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `toml:"format" mapstructure:"format"`
	Level  string `toml:"level" mapstructure:"level"`
}

// WatchConfig contains watch-mode configuration.
type WatchConfig struct {
	DebounceMs int `toml:"debounceMs" mapstructure:"debounceMs"`
}

// IgnoreConfig contains path exclusion patterns.
type IgnoreConfig struct {
	Patterns []string `toml:"patterns" mapstructure:"patterns"`
}

// HeuristicsConfig contains per-signal weight overrides. Overrides are
// an array of tables rather than a map because signal IDs contain dots,
// which viper would otherwise split into nested keys.
type HeuristicsConfig struct {
	Overrides []WeightOverride `toml:"override" mapstructure:"override"`
}

// WeightOverride replaces the catalogue weight for one signal ID.
type WeightOverride struct {
	ID     string  `toml:"id" mapstructure:"id"`
	Weight float64 `toml:"weight" mapstructure:"weight"`
}

// Weights flattens the override list into the map form the heuristics
// package consumes. A later entry for the same ID wins.
func (h HeuristicsConfig) Weights() map[string]float64 {
	if len(h.Overrides) == 0 {
		return nil
	}
	m := make(map[string]float64, len(h.Overrides))
	for _, o := range h.Overrides {
		m[o.ID] = o.Weight
	}
	return m
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".vibescan-cache",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Ignore: IgnoreConfig{
			Patterns: []string{},
		},
		Heuristics: HeuristicsConfig{},
	}
}

// FindRoot walks up from start looking for a directory containing
// either the config file or a .git directory. It falls back to start
// when neither is found.
func FindRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir
		}
		if fi, err := os.Stat(filepath.Join(dir, ".git")); err == nil && fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// LoadConfig loads configuration from <root>/.vibescan.toml. A missing
// file yields the defaults; a malformed or invalid file is an error.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".vibescan")
	v.SetConfigType("toml")
	v.AddConfigPath(root)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, &ConfigError{Field: FileName, Message: err.Error()}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ConfigError{Field: FileName, Message: err.Error()}
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnvOverride records an environment variable that changed a setting.
type EnvOverride struct {
	EnvVar string
	Field  string
	Value  string
}

var envVarMappings = map[string]string{
	"VIBESCAN_LOG_LEVEL":     "logging.level",
	"VIBESCAN_LOG_FORMAT":    "logging.format",
	"VIBESCAN_CACHE_DIR":     "cache.dir",
	"VIBESCAN_CACHE_ENABLED": "cache.enabled",
}

func applyEnvOverrides(cfg *Config) []EnvOverride {
	var applied []EnvOverride
	for envVar, field := range envVarMappings {
		val, ok := os.LookupEnv(envVar)
		if !ok {
			continue
		}
		switch field {
		case "logging.level":
			cfg.Logging.Level = val
		case "logging.format":
			cfg.Logging.Format = val
		case "cache.dir":
			cfg.Cache.Dir = val
		case "cache.enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				continue
			}
			cfg.Cache.Enabled = b
		}
		applied = append(applied, EnvOverride{EnvVar: envVar, Field: field, Value: val})
	}
	return applied
}

// Save writes the configuration to <root>/.vibescan.toml.
func (c *Config) Save(root string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(filepath.Join(root, FileName), data, 0o644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch logging.Level(c.Logging.Level) {
	case logging.DebugLevel, logging.InfoLevel, logging.WarnLevel, logging.ErrorLevel:
	default:
		return &ConfigError{Field: "logging.level", Message: "must be debug, info, warn, or error"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	if c.Watch.DebounceMs < 0 {
		return &ConfigError{Field: "watch.debounceMs", Message: "must not be negative"}
	}
	if _, err := heuristics.NewConfigured(c.Heuristics.Weights()); err != nil {
		return &ConfigError{Field: "heuristics.override", Message: err.Error()}
	}
	return nil
}

// Provider builds the heuristics provider from the configured weight
// overrides.
func (c *Config) Provider() (heuristics.Provider, error) {
	weights := c.Heuristics.Weights()
	if len(weights) == 0 {
		return heuristics.Defaults{}, nil
	}
	p, err := heuristics.NewConfigured(weights)
	if err != nil {
		return nil, &ConfigError{Field: "heuristics.override", Message: err.Error()}
	}
	return p, nil
}

// Rules builds the ignore ruleset from the configured patterns.
func (c *Config) Rules() ignore.Rules {
	if len(c.Ignore.Patterns) == 0 {
		return ignore.AllowAll{}
	}
	return ignore.NewPatterns(c.Ignore.Patterns)
}

// CacheDir resolves the cache directory relative to the project root.
func (c *Config) CacheDir(root string) string {
	if filepath.IsAbs(c.Cache.Dir) {
		return c.Cache.Dir
	}
	return filepath.Join(root, c.Cache.Dir)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
