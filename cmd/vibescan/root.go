package main

import (
	"vibescan/internal/version"

	"github.com/spf13/cobra"
)

var (
	formatFlag   string
	noCacheFlag  bool
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vibescan",
	Short: "vibescan - source attribution for AI-assisted codebases",
	Long: `vibescan estimates which model family (or human) wrote a piece of code.
It scores weighted stylistic signals per file, rolls scores up through a
content-addressed directory tree, and caches everything so warm runs touch
no analyzer at all.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("vibescan version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "human",
		"Output format (json, yaml, human)")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false,
		"Bypass the analysis cache entirely")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (overrides config)")
}
