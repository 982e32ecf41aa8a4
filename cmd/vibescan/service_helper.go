package main

import (
	"fmt"
	"os"
	"sync"

	"vibescan/internal/cache"
	"vibescan/internal/config"
	"vibescan/internal/logging"
	"vibescan/internal/scan"
)

var (
	serviceOnce   sync.Once
	sharedService *scan.Service
	sharedConfig  *config.Config
	sharedRoot    string
	serviceErr    error
)

// newLogger builds the command logger from config and flags. The
// --log-level flag wins over the config file.
func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	format := logging.HumanFormat
	if cfg.Logging.Format == "json" {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.ParseLevel(level),
	})
}

// getService returns a shared analysis service. Config errors are fatal
// here; a broken config file should never fall back to defaults
// silently.
func getService() (*scan.Service, *config.Config, string, error) {
	serviceOnce.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			serviceErr = err
			return
		}
		root := config.FindRoot(cwd)

		cfg, err := config.LoadConfig(root)
		if err != nil {
			serviceErr = err
			return
		}

		logger := newLogger(cfg)

		provider, err := cfg.Provider()
		if err != nil {
			serviceErr = err
			return
		}

		var store cache.Store
		if cfg.Cache.Enabled && !noCacheFlag {
			store, err = cache.OpenSQLite(cfg.CacheDir(root), logger)
			if err != nil {
				serviceErr = fmt.Errorf("opening cache: %w", err)
				return
			}
		} else {
			store = cache.NewMemoryStore()
		}

		sharedService = scan.New(scan.Options{
			Store:    store,
			Provider: provider,
			Rules:    cfg.Rules(),
			Logger:   logger,
		})
		sharedConfig = cfg
		sharedRoot = root
	})

	return sharedService, sharedConfig, sharedRoot, serviceErr
}

// mustGetService returns the shared service or exits on error.
func mustGetService() (*scan.Service, *config.Config, string) {
	svc, cfg, root, err := getService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return svc, cfg, root
}
