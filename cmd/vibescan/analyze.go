package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vibescan/internal/language"
)

var (
	analyzeSymbols bool
	analyzeStdin   bool
	analyzeLang    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Attribute a file, a directory tree, or stdin",
	Long: `Attribute source code to a model family.

With a file argument the file is analyzed (and cached by content hash).
With a directory argument the whole tree is walked, scored per file, and
rolled up through the directory hash tree. With --stdin the snippet is
read from standard input and never cached.

Examples:
  vibescan analyze internal/api/handler.go
  vibescan analyze --symbols src/main.ts
  vibescan analyze .
  vibescan analyze --no-cache ./pkg
  cat snippet.py | vibescan analyze --stdin --lang python`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSymbols, "symbols", false,
		"Also attribute each extracted symbol (files only, needs CGO)")
	analyzeCmd.Flags().BoolVar(&analyzeStdin, "stdin", false,
		"Read source text from standard input")
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "",
		"Language of stdin input (go, python, javascript, typescript, rust)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeStdin {
		return analyzeFromStdin()
	}
	if len(args) == 0 {
		return fmt.Errorf("a path argument is required unless --stdin is set")
	}
	return analyzePath(args[0])
}

func analyzeFromStdin() error {
	if analyzeLang == "" {
		return fmt.Errorf("--stdin requires --lang")
	}
	lang, ok := language.Parse(analyzeLang)
	if !ok {
		return fmt.Errorf("unsupported language %q", analyzeLang)
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	svc, _, _ := mustGetService()
	r := svc.Analyze(string(src), lang)

	return printResponse(r)
}

func analyzePath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot analyze %s: %w", path, err)
	}

	svc, _, _ := mustGetService()

	if fi.IsDir() {
		res, err := svc.AnalyzeDirectory(context.Background(), abs, !noCacheFlag)
		if err != nil {
			return err
		}
		return printResponse(res)
	}

	var r interface{}
	switch {
	case analyzeSymbols && noCacheFlag:
		r, err = svc.AnalyzeFileSymbolsNoCache(abs)
	case analyzeSymbols:
		r, err = svc.AnalyzeFileSymbols(abs)
	case noCacheFlag:
		r, err = svc.AnalyzeFileNoCache(abs)
	default:
		r, err = svc.AnalyzeFile(abs)
	}
	if err != nil {
		return err
	}
	return printResponse(r)
}

func printResponse(resp interface{}) error {
	out, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
