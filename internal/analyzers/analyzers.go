// Package analyzers implements the signal extractors. Text analyzers
// operate on raw source and run everywhere; CST analyzers need
// tree-sitter and only exist in cgo builds.
package analyzers

import (
	"strings"

	"vibescan/internal/heuristics"
	"vibescan/internal/language"
	"vibescan/internal/report"
)

// Analyzer extracts signals from one source text. Implementations must
// be deterministic and safe for concurrent use.
type Analyzer interface {
	Name() string
	Analyze(src string, lang language.Language) []report.Signal
}

// DefaultAnalyzers returns the full analyzer set: the six text
// analyzers plus the CST analyzer when the build carries tree-sitter.
func DefaultAnalyzers() []Analyzer {
	base := []Analyzer{
		commentStyle{},
		aiSignals{},
		errorHandling{},
		naming{},
		codeStructure{},
		idiomUsage{},
	}
	return append(base, cstAnalyzers()...)
}

// emit materializes a catalogued signal with its default weight. The
// pipeline reapplies configured weights afterwards.
func emit(id string) (report.Signal, bool) {
	s, ok := heuristics.Lookup(id)
	if !ok {
		return report.Signal{}, false
	}
	return report.Signal{
		ID:          id,
		Source:      s.Analyzer,
		Description: s.Description,
		Family:      s.Family,
		Weight:      s.Weight,
	}, true
}

func appendSignal(out []report.Signal, id string) []report.Signal {
	if s, ok := emit(id); ok {
		return append(out, s)
	}
	return out
}

// srcInfo is the shared line-level decomposition of one source text.
type srcInfo struct {
	lines    []string // every line, verbatim
	code     []string // non-blank, non-comment lines
	comments []string // comment text with markers stripped
}

// scan splits src into code and comment lines. Block comments are
// tracked with a line-level state machine; comment markers inside string
// literals will occasionally misclassify a line, which is acceptable for
// heuristic scoring.
func scan(src string, lang language.Language) srcInfo {
	info := srcInfo{lines: strings.Split(src, "\n")}
	marker := lang.LineComment()

	inBlock := false
	blockClose := "*/"
	if lang == language.Python {
		blockClose = `"""`
	}

	for _, raw := range info.lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if inBlock {
			text := line
			if i := strings.Index(line, blockClose); i >= 0 {
				text = line[:i]
				inBlock = false
			}
			text = strings.TrimSpace(strings.TrimPrefix(text, "*"))
			info.comments = append(info.comments, text)
			continue
		}

		switch {
		case strings.HasPrefix(line, marker):
			text := strings.TrimSpace(strings.TrimLeft(line, marker[:1]))
			info.comments = append(info.comments, text)

		case lang.HasBlockComments() && strings.HasPrefix(line, "/*"):
			text := strings.TrimSpace(strings.TrimPrefix(line, "/*"))
			if i := strings.Index(text, "*/"); i >= 0 {
				text = text[:i]
			} else {
				inBlock = true
			}
			info.comments = append(info.comments, strings.TrimSpace(text))

		case lang == language.Python && strings.HasPrefix(line, `"""`):
			text := strings.TrimPrefix(line, `"""`)
			if !strings.Contains(text, `"""`) {
				inBlock = true
			}
			text = strings.TrimSuffix(strings.TrimSpace(text), `"""`)
			info.comments = append(info.comments, strings.TrimSpace(text))

		default:
			info.code = append(info.code, raw)
			// Trailing line comments count for style checks too.
			if i := strings.Index(raw, " "+marker); i >= 0 {
				info.comments = append(info.comments, strings.TrimSpace(strings.TrimLeft(raw[i+1:], marker[:1])))
			}
		}
	}
	return info
}

func countMatches(lines []string, substr string) int {
	n := 0
	for _, l := range lines {
		n += strings.Count(l, substr)
	}
	return n
}
