// Package pipeline runs the analyzer set over source text and
// aggregates the resulting signals into an attribution.
package pipeline

import (
	"sort"
	"strings"
	"sync/atomic"

	"vibescan/internal/analyzers"
	"vibescan/internal/heuristics"
	"vibescan/internal/language"
	"vibescan/internal/report"
)

// Pipeline applies analyzers and configured weights. It is safe for
// concurrent use; the walker calls Run from many goroutines.
type Pipeline struct {
	analyzers   []analyzers.Analyzer
	provider    heuristics.Provider
	invocations atomic.Int64
}

// New builds a Pipeline with the default analyzer set.
func New(provider heuristics.Provider) *Pipeline {
	return NewWith(provider, analyzers.DefaultAnalyzers())
}

// NewWith builds a Pipeline with an explicit analyzer set.
func NewWith(provider heuristics.Provider, set []analyzers.Analyzer) *Pipeline {
	return &Pipeline{analyzers: set, provider: provider}
}

// Provider returns the active weight configuration.
func (p *Pipeline) Provider() heuristics.Provider { return p.provider }

// Invocations returns how many times analyzers have been run. Cache
// tests assert this stays flat on warm runs.
func (p *Pipeline) Invocations() int64 { return p.invocations.Load() }

// Run analyzes one source text and returns its report. Identical input
// always yields an identical report.
func (p *Pipeline) Run(src string, lang language.Language) report.Report {
	p.invocations.Add(1)

	var signals []report.Signal
	for _, a := range p.analyzers {
		for _, s := range a.Analyze(src, lang) {
			w, ok := p.provider.Weight(s.ID)
			if !ok || w == 0 {
				// Suppressed or uncatalogued signals never surface.
				continue
			}
			s.Weight = w
			signals = append(signals, s)
		}
	}

	sort.Slice(signals, func(i, j int) bool { return signals[i].ID < signals[j].ID })

	return report.Report{
		Attribution: Aggregate(signals),
		Signals:     signals,
		Metadata: report.Metadata{
			LinesOfCode: report.CountLines(src),
			SignalCount: len(signals),
		},
	}
}

// RunSymbols analyzes each extracted symbol's source range on its own.
// Builds without tree-sitter return no symbol reports.
func (p *Pipeline) RunSymbols(src string, lang language.Language) []report.SymbolReport {
	syms := analyzers.ExtractSymbols(src, lang)
	if len(syms) == 0 {
		return nil
	}

	lines := strings.Split(src, "\n")
	out := make([]report.SymbolReport, 0, len(syms))
	for _, sym := range syms {
		start, end := sym.StartLine, sym.EndLine
		if start < 1 || end > len(lines) || start > end {
			continue
		}
		slice := strings.Join(lines[start-1:end], "\n")
		r := p.Run(slice, lang)
		out = append(out, report.SymbolReport{
			Symbol:      sym,
			Attribution: r.Attribution,
			Signals:     r.Signals,
		})
	}
	return out
}

// Aggregate folds signals into a normalized attribution. Per-family
// sums clamp at zero; when nothing remains the verdict defaults to
// human with zero confidence and an all-zero score map.
func Aggregate(signals []report.Signal) report.Attribution {
	totals := make(map[report.ModelFamily]float64, len(report.FamilyOrder))
	for _, f := range report.FamilyOrder {
		totals[f] = 0
	}
	for _, s := range signals {
		if _, known := totals[s.Family]; !known {
			// A family outside the pinned order would skew the
			// normalization without ever surfacing in the scores.
			continue
		}
		totals[s.Family] += s.Weight
	}

	// Walk the pinned order rather than the map so float additions
	// happen in a fixed sequence and repeated calls stay bit-identical.
	sum := 0.0
	for _, f := range report.FamilyOrder {
		if totals[f] < 0 {
			totals[f] = 0
		}
		sum += totals[f]
	}

	scores := make(map[report.ModelFamily]float64, len(totals))
	if sum == 0 {
		for _, f := range report.FamilyOrder {
			scores[f] = 0
		}
		return report.Attribution{
			Primary:    report.FamilyHuman,
			Confidence: 0,
			Scores:     scores,
		}
	}

	for _, f := range report.FamilyOrder {
		scores[f] = totals[f] / sum
	}

	// Argmax with the pinned order deciding ties: Claude, GPT, Copilot,
	// Gemini, Human.
	primary := report.FamilyOrder[0]
	best := scores[primary]
	for _, f := range report.FamilyOrder[1:] {
		if scores[f] > best {
			primary = f
			best = scores[f]
		}
	}

	return report.Attribution{
		Primary:    primary,
		Confidence: best,
		Scores:     scores,
	}
}
