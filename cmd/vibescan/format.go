package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"vibescan/internal/heuristics"
	"vibescan/internal/merkle"
	"vibescan/internal/report"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case report.Report:
		return formatReportHuman(v), nil
	case *merkle.Result:
		return formatDirectoryHuman(v), nil
	case *CacheStatsCLI:
		return formatCacheStatsHuman(v), nil
	case []heuristics.Spec:
		return formatHeuristicsHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func verdictLine(a report.Attribution) string {
	return fmt.Sprintf("Verdict: %s (%.0f%% confidence)", a.Primary.Display(), a.Confidence*100)
}

func writeScores(b *strings.Builder, a report.Attribution, indent string) {
	for _, f := range report.FamilyOrder {
		b.WriteString(fmt.Sprintf("%s%-8s %5.1f%%\n", indent, f.Display(), a.Scores[f]*100))
	}
}

func formatReportHuman(r report.Report) string {
	var b strings.Builder

	if r.Metadata.FilePath != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Metadata.FilePath))
	}
	b.WriteString(fmt.Sprintf("%s\n", verdictLine(r.Attribution)))
	b.WriteString(fmt.Sprintf("Lines: %d  Signals: %d\n\n", r.Metadata.LinesOfCode, r.Metadata.SignalCount))

	b.WriteString("Scores:\n")
	writeScores(&b, r.Attribution, "  ")

	if len(r.Signals) > 0 {
		b.WriteString("\nSignals:\n")
		for _, s := range r.Signals {
			b.WriteString(fmt.Sprintf("  [%-7s %+.2f] %s\n", s.Family, s.Weight, s.ID))
		}
	}

	if len(r.SymbolReports) > 0 {
		b.WriteString("\nSymbols:\n")
		for _, sr := range r.SymbolReports {
			b.WriteString(fmt.Sprintf("  %s (%s, lines %d-%d): %s (%.0f%%)\n",
				sr.Symbol.Name, sr.Symbol.Kind, sr.Symbol.StartLine, sr.Symbol.EndLine,
				sr.Attribution.Primary.Display(), sr.Attribution.Confidence*100))
		}
	}

	return b.String()
}

func formatDirectoryHuman(res *merkle.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Directory: %s\n", res.Root.Name))
	b.WriteString(fmt.Sprintf("%s\n", verdictLine(res.Root.Score.Attribution)))
	b.WriteString(fmt.Sprintf("Weight: %.0f lines across %d files\n\n", res.Root.Score.Weight, res.Root.Score.Files))

	b.WriteString("Scores:\n")
	writeScores(&b, res.Root.Score.Attribution, "  ")

	if len(res.Files) > 0 {
		b.WriteString("\nFiles:\n")
		for _, f := range res.Files {
			b.WriteString(fmt.Sprintf("  %-40s %s (%.0f%%)\n",
				f.Path, f.Report.Attribution.Primary.Display(), f.Report.Attribution.Confidence*100))
		}
	}

	if len(res.Failed) > 0 {
		b.WriteString("\nFailed:\n")
		for _, f := range res.Failed {
			b.WriteString(fmt.Sprintf("  %s: %s\n", f.Path, f.Err))
		}
	}

	b.WriteString(fmt.Sprintf("\nCache: %d analyzed, %d file hits, %d dir hits\n",
		res.Stats.FilesAnalyzed, res.Stats.FileCacheHits, res.Stats.DirCacheHits))

	return b.String()
}

// CacheStatsCLI is the cache stats response shape.
type CacheStatsCLI struct {
	Path    string         `json:"path,omitempty" yaml:"path,omitempty"`
	Entries map[string]int `json:"entries" yaml:"entries"`
	Total   int            `json:"total" yaml:"total"`
}

func formatCacheStatsHuman(s *CacheStatsCLI) string {
	var b strings.Builder

	if s.Path != "" {
		b.WriteString(fmt.Sprintf("Cache: %s\n", s.Path))
	}
	b.WriteString("Entries:\n")
	for _, ns := range []string{"report", "symbols", "dir"} {
		b.WriteString(fmt.Sprintf("  %-8s %d\n", ns, s.Entries[ns]))
	}
	b.WriteString(fmt.Sprintf("Total: %d\n", s.Total))

	return b.String()
}

func formatHeuristicsHuman(specs []heuristics.Spec) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Catalogue: %d signals\n\n", len(specs)))
	for _, s := range specs {
		b.WriteString(fmt.Sprintf("  %-40s %-7s %5.2f  %s\n", s.ID, s.Family, s.Weight, s.Description))
	}

	return b.String()
}
