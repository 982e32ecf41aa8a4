package analyzers

import (
	"regexp"

	"vibescan/internal/language"
	"vibescan/internal/report"
)

// aiSignals looks for tells that cut across style: TODO hygiene, filler
// phrasing, placeholder identifiers, and leftover commented-out code.
type aiSignals struct{}

func (aiSignals) Name() string { return "ai_signals" }

var (
	todoRe        = regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX)\b`)
	fillerRe      = regexp.MustCompile(`(?i)\b(note that|ensure that|it'?s worth noting|simply|as needed|in a real (implementation|application))\b`)
	placeholderRe = regexp.MustCompile(`\b(foo|bar|baz|qux|tmp2|myVar|my_var)\b`)
	emphasisRe    = regexp.MustCompile(`(\*\*[^*]+\*\*|^(NOTE|IMPORTANT|WARNING):)`)
	// Commented-out code: comment text that ends like a statement or
	// starts like one.
	deadCodeRe = regexp.MustCompile(`(;$|^\s*(if|for|while|return|func |def |fn |let |const |var )\b.*[({;]?$)`)
)

func (aiSignals) Analyze(src string, lang language.Language) []report.Signal {
	info := scan(src, lang)
	var out []report.Signal
	prefix := lang.Code()

	hasTodo := false
	for _, c := range info.comments {
		if todoRe.MatchString(c) {
			hasTodo = true
			break
		}
	}
	if hasTodo {
		out = appendSignal(out, prefix+".ai_signals.todo_fixme")
	} else if len(info.code) > 50 {
		out = appendSignal(out, prefix+".ai_signals.no_todo")
	}

	filler := 0
	for _, c := range info.comments {
		if fillerRe.MatchString(c) {
			filler++
		}
	}
	if filler >= 2 {
		out = appendSignal(out, prefix+".ai_signals.filler_phrases")
	}

	if countPlaceholders(info.code) >= 3 {
		out = appendSignal(out, prefix+".ai_signals.placeholder_names")
	}

	dead := 0
	for _, c := range info.comments {
		if len(c) > 8 && deadCodeRe.MatchString(c) {
			dead++
		}
	}
	if dead >= 3 {
		out = appendSignal(out, prefix+".ai_signals.commented_out_code")
	}

	for _, c := range info.comments {
		if emphasisRe.MatchString(c) {
			out = appendSignal(out, prefix+".ai_signals.emphasis_markers")
			break
		}
	}

	return out
}

func countPlaceholders(code []string) int {
	n := 0
	for _, l := range code {
		if placeholderRe.MatchString(l) {
			n++
		}
	}
	return n
}
