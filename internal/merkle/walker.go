package merkle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vibescan/internal/cache"
	"vibescan/internal/ignore"
	"vibescan/internal/language"
	"vibescan/internal/logging"
	"vibescan/internal/pipeline"
	"vibescan/internal/report"
)

// FileResult pairs one analyzed file with its report. Path is
// slash-relative to the walk root.
type FileResult struct {
	Path   string        `json:"path" yaml:"path"`
	Report report.Report `json:"report" yaml:"report"`
}

// FailedPath records one path the walk could not fully process.
type FailedPath struct {
	Path string `json:"path" yaml:"path"`
	Err  string `json:"error" yaml:"error"`
}

// Stats counts what the walk did, mostly for logging and cache tests.
type Stats struct {
	FilesAnalyzed int `json:"files_analyzed" yaml:"files_analyzed"`
	FileCacheHits int `json:"file_cache_hits" yaml:"file_cache_hits"`
	DirCacheHits  int `json:"dir_cache_hits" yaml:"dir_cache_hits"`
}

// Result is a completed directory walk. Failed paths never abort the
// walk; the rest of the tree still resolves.
type Result struct {
	Root   *Node        `json:"root" yaml:"root"`
	Files  []FileResult `json:"files" yaml:"files"`
	Failed []FailedPath `json:"failed,omitempty" yaml:"failed,omitempty"`
	Stats  Stats        `json:"stats" yaml:"stats"`
}

// Options configures a Walker.
type Options struct {
	// UseCache enables cache reads and writes. Off means every file is
	// re-analyzed and nothing is stored.
	UseCache bool
	// Workers bounds concurrent file analysis; zero means GOMAXPROCS.
	Workers int
	// Rules filters the walk. Nil means ignore.AllowAll.
	Rules ignore.Rules
	// Logger receives walk progress. Nil means silent.
	Logger *logging.Logger
}

// Walker runs incremental, parallel directory analysis.
type Walker struct {
	cache    *cache.Cache
	pipe     *pipeline.Pipeline
	rules    ignore.Rules
	logger   *logging.Logger
	workers  int
	useCache bool
}

// NewWalker builds a Walker over a cache and pipeline.
func NewWalker(c *cache.Cache, p *pipeline.Pipeline, opts Options) *Walker {
	rules := opts.Rules
	if rules == nil {
		rules = ignore.AllowAll{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Walker{
		cache:    c,
		pipe:     p,
		rules:    rules,
		logger:   logger,
		workers:  workers,
		useCache: opts.UseCache,
	}
}

// walkState is the mutable part of one Walk call.
type walkState struct {
	sem       chan struct{}
	rulesetFP [32]byte

	mu     sync.Mutex
	files  []FileResult
	failed []FailedPath
	stats  Stats
}

func (st *walkState) fail(path string, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.failed = append(st.failed, FailedPath{Path: path, Err: err.Error()})
}

// Walk analyzes the tree rooted at root and returns the hash tree,
// per-file reports, and rolled-up directory scores. Sibling subtrees
// run in parallel with a join at every directory.
func (w *Walker) Walk(ctx context.Context, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("walk root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk root %s is not a directory", root)
	}

	session := uuid.NewString()
	w.logger.Debug("walk started", map[string]interface{}{
		"session": session,
		"root":    absRoot,
		"workers": w.workers,
		"cache":   w.useCache,
	})

	st := &walkState{
		sem:       make(chan struct{}, w.workers),
		rulesetFP: w.rules.Fingerprint(),
	}

	node := w.walkDir(ctx, st, absRoot, ".")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("reading walk root %s failed", root)
	}

	sort.Slice(st.files, func(i, j int) bool { return st.files[i].Path < st.files[j].Path })
	sort.Slice(st.failed, func(i, j int) bool { return st.failed[i].Path < st.failed[j].Path })

	w.logger.Info("walk complete", map[string]interface{}{
		"session":   session,
		"files":     len(st.files),
		"failed":    len(st.failed),
		"analyzed":  st.stats.FilesAnalyzed,
		"file_hits": st.stats.FileCacheHits,
		"dir_hits":  st.stats.DirCacheHits,
	})

	return &Result{
		Root:   node,
		Files:  st.files,
		Failed: st.failed,
		Stats:  st.stats,
	}, nil
}

// walkDir processes one directory: children fan out, then join here so
// the directory's hash and score only form once every child settled.
// A nil return means the directory itself could not be read.
func (w *Walker) walkDir(ctx context.Context, st *walkState, abs, rel string) *Node {
	if ctx.Err() != nil {
		return nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		st.fail(rel, err)
		return nil
	}

	type childScore struct {
		name  string
		score report.DirScore
	}
	var (
		mu       sync.Mutex
		pairs    []childPair
		children []*Node
		scored   []childScore
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		name := e.Name()
		childRel := name
		if rel != "." {
			childRel = rel + "/" + name
		}
		childAbs := filepath.Join(abs, name)

		switch {
		case e.IsDir():
			if w.rules.IsIgnoredDir(childRel) {
				continue
			}
			g.Go(func() error {
				node := w.walkDir(ctx, st, childAbs, childRel)
				if node == nil {
					return nil
				}
				mu.Lock()
				pairs = append(pairs, childPair{name: name, hash: node.Hash})
				children = append(children, node)
				scored = append(scored, childScore{name: name, score: node.Score})
				mu.Unlock()
				return nil
			})

		case e.Type().IsRegular():
			lang, supported := language.Detect(name)
			if !supported || w.rules.IsIgnored(childRel) {
				continue
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				st.sem <- struct{}{}
				hash, score, hashed := w.analyzeLeaf(st, childAbs, childRel, lang)
				<-st.sem
				if !hashed {
					return nil
				}
				mu.Lock()
				pairs = append(pairs, childPair{name: name, hash: hash})
				if score != nil {
					scored = append(scored, childScore{name: name, score: *score})
				}
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	hash := hashChildren(w.cache, st.rulesetFP, pairs)
	node := &Node{
		Name: filepath.Base(abs),
		Path: rel,
		Hash: hash,
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	node.Children = children

	if w.useCache {
		if d, ok := w.cache.Dir(hash); ok {
			st.mu.Lock()
			st.stats.DirCacheHits++
			st.mu.Unlock()
			node.Score = d
			return node
		}
	}

	// Goroutines finish in arbitrary order; rolling up in name order
	// keeps the persisted score bit-identical across cold walks.
	sort.Slice(scored, func(i, j int) bool { return scored[i].name < scored[j].name })
	scores := make([]report.DirScore, len(scored))
	for i, c := range scored {
		scores[i] = c.score
	}

	node.Score = Rollup(scores)
	if w.useCache {
		w.cache.PutDir(hash, node.Score)
	}
	return node
}

// analyzeLeaf hashes and analyzes one file. hashed reports whether the
// file produced a content hash; an unreadable file does not and so
// cannot take part in its parent's digest. An analyzer failure still
// returns the hash with a nil score, keeping the Merkle invariant while
// the failure lands on the failed list.
func (w *Walker) analyzeLeaf(st *walkState, abs, rel string, lang language.Language) (cache.ContentHash, *report.DirScore, bool) {
	content, err := os.ReadFile(abs)
	if err != nil {
		st.fail(rel, err)
		return cache.ContentHash{}, nil, false
	}

	hash := w.cache.HashContent(content)

	if w.useCache {
		if r, ok := w.cache.Report(hash); ok {
			st.mu.Lock()
			st.stats.FileCacheHits++
			st.files = append(st.files, FileResult{Path: rel, Report: withPath(r, rel)})
			st.mu.Unlock()
			score := FileScore(r)
			return hash, &score, true
		}
	}

	r, err := w.runIsolated(string(content), lang)
	if err != nil {
		st.fail(rel, err)
		return hash, nil, true
	}

	if w.useCache {
		w.cache.PutReport(hash, r)
	}

	st.mu.Lock()
	st.stats.FilesAnalyzed++
	st.files = append(st.files, FileResult{Path: rel, Report: withPath(r, rel)})
	st.mu.Unlock()

	score := FileScore(r)
	return hash, &score, true
}

// runIsolated shields the walk from a misbehaving analyzer; a panic on
// one file becomes that file's failure, nothing more.
func (w *Walker) runIsolated(src string, lang language.Language) (r report.Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("analyzer panic: %v", p)
		}
	}()
	return w.pipe.Run(src, lang), nil
}

func withPath(r report.Report, rel string) report.Report {
	r.Metadata.FilePath = rel
	return r
}
