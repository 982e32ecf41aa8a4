// Package report defines the attribution data model: model families,
// weighted signals, and the per-file and per-symbol reports produced by
// the analysis pipeline.
package report

import (
	"fmt"
	"strings"
)

// ModelFamily identifies a class of code author.
type ModelFamily string

const (
	FamilyClaude  ModelFamily = "claude"
	FamilyGPT     ModelFamily = "gpt"
	FamilyCopilot ModelFamily = "copilot"
	FamilyGemini  ModelFamily = "gemini"
	FamilyHuman   ModelFamily = "human"
)

// FamilyOrder lists every family in tie-break priority order. When two
// families end up with equal normalized scores, the one appearing earlier
// here wins the primary slot.
var FamilyOrder = []ModelFamily{
	FamilyClaude,
	FamilyGPT,
	FamilyCopilot,
	FamilyGemini,
	FamilyHuman,
}

// ParseFamily converts a user-supplied string to a ModelFamily.
func ParseFamily(s string) (ModelFamily, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "claude":
		return FamilyClaude, nil
	case "gpt", "openai":
		return FamilyGPT, nil
	case "copilot":
		return FamilyCopilot, nil
	case "gemini":
		return FamilyGemini, nil
	case "human":
		return FamilyHuman, nil
	default:
		return "", fmt.Errorf("unknown model family %q", s)
	}
}

// Display returns the human-facing name of the family.
func (f ModelFamily) Display() string {
	switch f {
	case FamilyGPT:
		return "GPT"
	case FamilyClaude, FamilyCopilot, FamilyGemini, FamilyHuman:
		return strings.ToUpper(string(f[:1])) + string(f[1:])
	default:
		return string(f)
	}
}

// Signal is one piece of evidence pointing at a family. Weight is the
// effective weight after configuration overrides have been applied.
type Signal struct {
	ID          string      `json:"id" yaml:"id"`
	Source      string      `json:"source" yaml:"source"`
	Description string      `json:"description" yaml:"description"`
	Family      ModelFamily `json:"family" yaml:"family"`
	Weight      float64     `json:"weight" yaml:"weight"`
}

// Attribution is the aggregated verdict for one unit of source text.
// Scores holds a normalized entry for every family; entries sum to 1
// unless all raw totals clamped to zero, in which case every score is 0,
// Primary is FamilyHuman and Confidence is 0.
type Attribution struct {
	Primary    ModelFamily             `json:"primary" yaml:"primary"`
	Confidence float64                 `json:"confidence" yaml:"confidence"`
	Scores     map[ModelFamily]float64 `json:"scores" yaml:"scores"`
}

// Metadata carries per-file context alongside an attribution.
type Metadata struct {
	FilePath    string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	LinesOfCode int    `json:"lines_of_code" yaml:"lines_of_code"`
	SignalCount int    `json:"signal_count" yaml:"signal_count"`
}

// SymbolMetadata locates one extracted symbol within its file.
type SymbolMetadata struct {
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
}

// SymbolReport is the attribution of a single symbol's source range.
type SymbolReport struct {
	Symbol      SymbolMetadata `json:"symbol" yaml:"symbol"`
	Attribution Attribution    `json:"attribution" yaml:"attribution"`
	Signals     []Signal       `json:"signals" yaml:"signals"`
}

// Report is the full analysis result for one file or text blob.
type Report struct {
	Attribution   Attribution    `json:"attribution" yaml:"attribution"`
	Signals       []Signal       `json:"signals" yaml:"signals"`
	Metadata      Metadata       `json:"metadata" yaml:"metadata"`
	SymbolReports []SymbolReport `json:"symbol_reports,omitempty" yaml:"symbol_reports,omitempty"`
}

// DirScore is the rolled-up attribution of a directory subtree. Weight
// is the total line count beneath it and feeds the parent's roll-up.
type DirScore struct {
	Attribution Attribution `json:"attribution" yaml:"attribution"`
	Weight      float64     `json:"weight" yaml:"weight"`
	Files       int         `json:"files" yaml:"files"`
}

// CountLines reports the number of non-empty lines in source. Blank lines
// carry no authorship evidence, so they do not count toward roll-up weight.
func CountLines(source string) int {
	n := 0
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
