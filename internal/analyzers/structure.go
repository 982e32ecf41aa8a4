package analyzers

import (
	"math"
	"regexp"
	"strings"

	"vibescan/internal/language"
	"vibescan/internal/report"
)

// codeStructure scores file shape: function length distribution,
// nesting depth, and guard clauses.
type codeStructure struct{}

func (codeStructure) Name() string { return "code_structure" }

var funcStartRe = regexp.MustCompile(`^\s*(func |def |fn |function |(export\s+)?(async\s+)?function\b|pub\s+(async\s+)?fn )`)

func (codeStructure) Analyze(src string, lang language.Language) []report.Signal {
	info := scan(src, lang)
	var out []report.Signal
	prefix := lang.Code()

	if len(info.lines) > 500 {
		out = appendSignal(out, prefix+".structure.long_file")
	}

	lengths := functionLengths(info.lines)
	if len(lengths) >= 4 && lengthStddev(lengths) < 4 {
		out = appendSignal(out, prefix+".structure.uniform_functions")
	}

	if maxIndentDepth(info.code, lang) > 5 {
		out = appendSignal(out, prefix+".structure.deep_nesting")
	}

	guards := 0
	for i, l := range info.code {
		t := strings.TrimSpace(l)
		isGuardStart := strings.HasPrefix(t, "if ") && i+1 < len(info.code)
		if !isGuardStart {
			continue
		}
		next := strings.TrimSpace(info.code[i+1])
		if strings.HasPrefix(next, "return") || strings.HasPrefix(next, "continue") || strings.HasPrefix(next, "raise ") {
			guards++
		}
	}
	if guards >= 3 {
		out = appendSignal(out, prefix+".structure.guard_clauses")
	}

	return out
}

// functionLengths approximates body sizes from the gaps between
// successive function starts.
func functionLengths(lines []string) []int {
	var starts []int
	for i, l := range lines {
		if funcStartRe.MatchString(l) {
			starts = append(starts, i)
		}
	}
	var lengths []int
	for i := 0; i < len(starts)-1; i++ {
		lengths = append(lengths, starts[i+1]-starts[i])
	}
	if len(starts) > 0 {
		lengths = append(lengths, len(lines)-starts[len(starts)-1])
	}
	return lengths
}

func lengthStddev(lengths []int) float64 {
	mean := 0.0
	for _, l := range lengths {
		mean += float64(l)
	}
	mean /= float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(lengths)))
}

func maxIndentDepth(code []string, lang language.Language) int {
	unit := 1 // tabs
	if lang == language.Python || lang == language.JavaScript || lang == language.TypeScript || lang == language.Rust {
		unit = 4 // conventional space indents
	}

	maxDepth := 0
	for _, l := range code {
		depth := 0
		if strings.HasPrefix(l, "\t") {
			depth = len(l) - len(strings.TrimLeft(l, "\t"))
		} else {
			spaces := len(l) - len(strings.TrimLeft(l, " "))
			depth = spaces / unit
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}
