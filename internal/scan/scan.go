// Package scan is the top-level analysis service: one place wiring the
// pipeline, cache, and walker behind the operations the CLI exposes.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vibescan/internal/cache"
	"vibescan/internal/heuristics"
	"vibescan/internal/ignore"
	"vibescan/internal/language"
	"vibescan/internal/logging"
	"vibescan/internal/merkle"
	"vibescan/internal/pipeline"
	"vibescan/internal/report"
)

// Options assembles a Service. Zero values fall back to an in-memory
// store, default heuristics, allow-all rules, and a silent logger.
type Options struct {
	Store    cache.Store
	Provider heuristics.Provider
	Rules    ignore.Rules
	Logger   *logging.Logger
	Workers  int
}

// Service runs attributions over text, files, and directory trees.
type Service struct {
	pipe    *pipeline.Pipeline
	cache   *cache.Cache
	rules   ignore.Rules
	logger  *logging.Logger
	workers int
}

// New builds a Service.
func New(opts Options) *Service {
	if opts.Store == nil {
		opts.Store = cache.NewMemoryStore()
	}
	if opts.Provider == nil {
		opts.Provider = heuristics.Defaults{}
	}
	if opts.Rules == nil {
		opts.Rules = ignore.AllowAll{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Service{
		pipe:    pipeline.New(opts.Provider),
		cache:   cache.New(opts.Store, opts.Provider, opts.Logger),
		rules:   opts.Rules,
		logger:  opts.Logger,
		workers: opts.Workers,
	}
}

// Cache exposes the typed cache for maintenance commands.
func (s *Service) Cache() *cache.Cache { return s.cache }

// Pipeline exposes the pipeline, mainly for its invocation counter.
func (s *Service) Pipeline() *pipeline.Pipeline { return s.pipe }

// Analyze attributes a raw text snippet. Snippets never touch the
// cache; there is no stable identity to key them by.
func (s *Service) Analyze(src string, lang language.Language) report.Report {
	return s.pipe.Run(src, lang)
}

func (s *Service) readSource(path string) (string, language.Language, error) {
	lang, ok := language.Detect(path)
	if !ok {
		return "", "", fmt.Errorf("unsupported file type: %s", filepath.Base(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(content), lang, nil
}

// AnalyzeFile attributes one file, consulting and feeding the report
// cache.
func (s *Service) AnalyzeFile(path string) (report.Report, error) {
	return s.analyzeFile(path, true)
}

// AnalyzeFileNoCache attributes one file without reading or writing the
// cache.
func (s *Service) AnalyzeFileNoCache(path string) (report.Report, error) {
	return s.analyzeFile(path, false)
}

func (s *Service) analyzeFile(path string, useCache bool) (report.Report, error) {
	src, lang, err := s.readSource(path)
	if err != nil {
		return report.Report{}, err
	}
	return s.fileReport(path, src, lang, useCache), nil
}

func (s *Service) fileReport(path, src string, lang language.Language, useCache bool) report.Report {
	key := s.cache.HashContent([]byte(src))
	if useCache {
		if r, ok := s.cache.Report(key); ok {
			r.Metadata.FilePath = path
			return r
		}
	}

	r := s.pipe.Run(src, lang)
	// Stored entries stay path-free; the path is stamped only on the
	// copy handed back, same as on the cache-hit branch above.
	if useCache {
		s.cache.PutReport(key, r)
	}
	r.Metadata.FilePath = path
	return r
}

// AnalyzeFileSymbols attributes one file and every extracted symbol in
// it. File and symbol results cache independently under the same key.
func (s *Service) AnalyzeFileSymbols(path string) (report.Report, error) {
	return s.analyzeFileSymbols(path, true)
}

// AnalyzeFileSymbolsNoCache is AnalyzeFileSymbols without the cache.
func (s *Service) AnalyzeFileSymbolsNoCache(path string) (report.Report, error) {
	return s.analyzeFileSymbols(path, false)
}

func (s *Service) analyzeFileSymbols(path string, useCache bool) (report.Report, error) {
	src, lang, err := s.readSource(path)
	if err != nil {
		return report.Report{}, err
	}

	r := s.fileReport(path, src, lang, useCache)
	key := s.cache.HashContent([]byte(src))

	if useCache {
		if syms, ok := s.cache.Symbols(key); ok {
			r.SymbolReports = syms
			return r, nil
		}
	}

	syms := s.pipe.RunSymbols(src, lang)
	if useCache && len(syms) > 0 {
		s.cache.PutSymbols(key, syms)
	}
	r.SymbolReports = syms
	return r, nil
}

// AnalyzeDirectory walks a tree with the service's configured ignore
// rules.
func (s *Service) AnalyzeDirectory(ctx context.Context, path string, useCache bool) (*merkle.Result, error) {
	return s.AnalyzeDirectoryWith(ctx, path, useCache, s.rules)
}

// AnalyzeDirectoryWith walks a tree under caller-supplied ignore rules.
func (s *Service) AnalyzeDirectoryWith(ctx context.Context, path string, useCache bool, rules ignore.Rules) (*merkle.Result, error) {
	w := merkle.NewWalker(s.cache, s.pipe, merkle.Options{
		UseCache: useCache,
		Workers:  s.workers,
		Rules:    rules,
		Logger:   s.logger,
	})
	return w.Walk(ctx, path)
}
