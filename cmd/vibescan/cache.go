package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibescan/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the analysis cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts per namespace",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached analysis result",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	svc, _, _ := mustGetService()
	store := svc.Cache().Store()

	stats := &CacheStatsCLI{Entries: make(map[string]int)}
	if s, ok := store.(*cache.SQLiteStore); ok {
		stats.Path = s.Path()
	}
	for _, ns := range cache.Namespaces {
		n, err := store.Count(ns)
		if err != nil {
			return fmt.Errorf("counting %s entries: %w", ns, err)
		}
		stats.Entries[string(ns)] = n
		stats.Total += n
	}

	return printResponse(stats)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	svc, _, _ := mustGetService()
	if err := svc.Cache().Store().Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	fmt.Println("Cache cleared.")
	return nil
}
