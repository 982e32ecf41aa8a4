package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if cfg.Cache.Dir == "" {
		t.Error("cache dir should have a default")
	}
	if cfg.Logging.Format != "human" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "human")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Watch.DebounceMs <= 0 {
		t.Error("Watch.DebounceMs should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"level warn", func(c *Config) { c.Logging.Level = "warn" }, false},
		{"level bogus", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"format json", func(c *Config) { c.Logging.Format = "json" }, false},
		{"format bogus", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }, true},
		{"known override", func(c *Config) {
			c.Heuristics.Overrides = []WeightOverride{{ID: "go.errors.errorf_wrap", Weight: 2.0}}
		}, false},
		{"unknown override", func(c *Config) {
			c.Heuristics.Overrides = []WeightOverride{{ID: "go.errors.no_such_signal", Weight: 1.0}}
		}, true},
		{"negative override", func(c *Config) {
			c.Heuristics.Overrides = []WeightOverride{{ID: "go.errors.errorf_wrap", Weight: -1.0}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() should return an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}
			if err != nil {
				if _, ok := err.(*ConfigError); !ok {
					t.Errorf("Validate() error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "logging.level", Message: "must be debug, info, warn, or error"}

	got := err.Error()
	want := "config error in field 'logging.level': must be debug, info, warn, or error"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Cache.Enabled {
		t.Error("missing config file should yield defaults")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	content := `
[cache]
enabled = false
dir = "custom-cache"

[logging]
level = "debug"

[ignore]
patterns = ["gen/", "*.pb.go"]

[[heuristics.override]]
id = "go.errors.errorf_wrap"
weight = 3.5
`
	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Cache.Enabled {
		t.Error("cache should be disabled per config")
	}
	if cfg.Cache.Dir != "custom-cache" {
		t.Errorf("Cache.Dir = %q, want %q", cfg.Cache.Dir, "custom-cache")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "human" {
		t.Errorf("unset Logging.Format = %q, want default %q", cfg.Logging.Format, "human")
	}
	if len(cfg.Ignore.Patterns) != 2 {
		t.Errorf("len(Ignore.Patterns) = %d, want 2", len(cfg.Ignore.Patterns))
	}

	weights := cfg.Heuristics.Weights()
	if weights["go.errors.errorf_wrap"] != 3.5 {
		t.Errorf("override weight = %v, want 3.5", weights["go.errors.errorf_wrap"])
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("[cache\nenabled ="), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(tmpDir); err == nil {
		t.Error("LoadConfig() should return error for malformed TOML")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[logging]
level = "shouting"
`
	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := LoadConfig(tmpDir)
	if err == nil {
		t.Fatal("LoadConfig() should reject an invalid level")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("error type = %T, want *ConfigError", err)
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Ignore.Patterns = []string{"vendor/"}
	cfg.Heuristics.Overrides = []WeightOverride{{ID: "go.errors.errorf_wrap", Weight: 2.0}}

	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() after save error = %v", err)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", loaded.Logging.Level, "debug")
	}
	if len(loaded.Ignore.Patterns) != 1 || loaded.Ignore.Patterns[0] != "vendor/" {
		t.Errorf("Ignore.Patterns = %v, want [vendor/]", loaded.Ignore.Patterns)
	}
	if loaded.Heuristics.Weights()["go.errors.errorf_wrap"] != 2.0 {
		t.Error("override weight did not survive the round trip")
	}
}

func TestFindRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	// No marker anywhere: falls back to the start directory.
	if got := FindRoot(nested); got != nested {
		t.Errorf("FindRoot() = %q, want %q", got, nested)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := FindRoot(nested); got != tmpDir {
		t.Errorf("FindRoot() = %q, want config root %q", got, tmpDir)
	}
}

func TestFindRoot_GitMarker(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "pkg")
	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindRoot(nested); got != tmpDir {
		t.Errorf("FindRoot() = %q, want git root %q", got, tmpDir)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	for envVar := range envVarMappings {
		os.Unsetenv(envVar)
	}

	os.Setenv("VIBESCAN_LOG_LEVEL", "error")
	os.Setenv("VIBESCAN_CACHE_ENABLED", "false")
	defer func() {
		os.Unsetenv("VIBESCAN_LOG_LEVEL")
		os.Unsetenv("VIBESCAN_CACHE_ENABLED")
	}()

	cfg := DefaultConfig()
	overrides := applyEnvOverrides(cfg)

	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "error")
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if len(overrides) != 2 {
		t.Errorf("len(overrides) = %d, want 2", len(overrides))
	}
}

func TestApplyEnvOverrides_InvalidBool(t *testing.T) {
	for envVar := range envVarMappings {
		os.Unsetenv(envVar)
	}

	os.Setenv("VIBESCAN_CACHE_ENABLED", "not-a-bool")
	defer os.Unsetenv("VIBESCAN_CACHE_ENABLED")

	cfg := DefaultConfig()
	overrides := applyEnvOverrides(cfg)

	if !cfg.Cache.Enabled {
		t.Error("invalid bool should not change the value")
	}
	if len(overrides) != 0 {
		t.Errorf("len(overrides) = %d, want 0", len(overrides))
	}
}

func TestConfigRules(t *testing.T) {
	cfg := DefaultConfig()
	rules := cfg.Rules()
	if rules.IsIgnored("main.go") {
		t.Error("empty pattern list should allow everything")
	}

	cfg.Ignore.Patterns = []string{"*.pb.go"}
	rules = cfg.Rules()
	if !rules.IsIgnored("api/service.pb.go") {
		t.Error("pattern should match generated files")
	}
	if rules.IsIgnored("api/service.go") {
		t.Error("pattern should not match plain files")
	}
}

func TestConfigCacheDir(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.CacheDir("/repo")
	if got != filepath.Join("/repo", cfg.Cache.Dir) {
		t.Errorf("CacheDir() = %q", got)
	}

	cfg.Cache.Dir = "/var/cache/vibescan"
	if got := cfg.CacheDir("/repo"); got != "/var/cache/vibescan" {
		t.Errorf("absolute CacheDir() = %q", got)
	}
}
