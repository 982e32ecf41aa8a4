//go:build !cgo

package analyzers

import (
	"vibescan/internal/language"
	"vibescan/internal/report"
)

// CSTAvailable reports whether tree-sitter backed analysis is compiled in.
// Without cgo the text analyzers still run; symbol extraction returns
// nothing.
func CSTAvailable() bool { return false }

func cstAnalyzers() []Analyzer { return nil }

// ExtractSymbols returns no symbols in builds without tree-sitter.
func ExtractSymbols(src string, lang language.Language) []report.SymbolMetadata {
	return nil
}
