package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vibescan/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-analyze a directory whenever its source files change",
	Long: `Watch a directory tree and re-run the directory analysis after each
burst of changes. The incremental cache keeps re-runs cheap: only the
files that actually changed are re-analyzed.

Examples:
  vibescan watch .
  vibescan watch --format=json ./src`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	svc, cfg, _ := mustGetService()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := func() {
		res, err := svc.AnalyzeDirectory(ctx, abs, !noCacheFlag)
		if err != nil {
			logger.Error("Analysis failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		if err := printResponse(res); err != nil {
			logger.Error("Formatting failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	w, err := watch.New(abs, func(events []watch.Event) {
		logger.Info("Changes detected", map[string]interface{}{
			"events": len(events),
		})
		rerun()
	}, watch.Options{
		Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		Rules:    cfg.Rules(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	// Initial pass before settling into watch mode.
	rerun()

	w.Start()
	defer func() { _ = w.Stop() }()

	fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl+C to stop)")
	<-ctx.Done()
	return nil
}
