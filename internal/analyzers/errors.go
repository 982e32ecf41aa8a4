package analyzers

import (
	"regexp"
	"strings"

	"vibescan/internal/language"
	"vibescan/internal/report"
)

// errorHandling scores language-specific failure handling patterns.
type errorHandling struct{}

func (errorHandling) Name() string { return "error_handling" }

var (
	errorfWrapRe   = regexp.MustCompile(`fmt\.Errorf\([^)]*%w`)
	bareReturnRe   = regexp.MustCompile(`^\s*return (err|nil, err)$`)
	ignoredErrRe   = regexp.MustCompile(`(_\s*=\s*\w+\.|,\s*_\s*:?=)`)
	bareExceptRe   = regexp.MustCompile(`^\s*except\s*:`)
	broadExceptRe  = regexp.MustCompile(`except\s+(Exception|BaseException)\b`)
	raiseFromRe    = regexp.MustCompile(`raise\s+\w+.*\bfrom\s+\w+`)
	emptyCatchRe   = regexp.MustCompile(`catch\s*(\([^)]*\))?\s*\{\s*\}`)
	throwNewRe     = regexp.MustCompile(`throw new Error\(`)
	promiseCatchRe = regexp.MustCompile(`\.catch\(`)
	expectMsgRe    = regexp.MustCompile(`\.expect\("[^"]{8,}"\)`)
)

func (errorHandling) Analyze(src string, lang language.Language) []report.Signal {
	info := scan(src, lang)
	var out []report.Signal

	switch lang {
	case language.Go:
		out = goErrors(out, info)
	case language.Python:
		out = pythonErrors(out, info)
	case language.JavaScript, language.TypeScript:
		out = jsErrors(out, src, info)
	case language.Rust:
		out = rustErrors(out, info)
	}
	return out
}

func goErrors(out []report.Signal, info srcInfo) []report.Signal {
	wraps := 0
	bare := 0
	sentinel := 0
	panics := 0
	ignored := 0
	for _, l := range info.code {
		if errorfWrapRe.MatchString(l) {
			wraps++
		}
		if bareReturnRe.MatchString(l) {
			bare++
		}
		if strings.Contains(l, "errors.Is(") || strings.Contains(l, "errors.As(") {
			sentinel++
		}
		if strings.Contains(l, "panic(") {
			panics++
		}
		if ignoredErrRe.MatchString(l) && strings.Contains(l, "err") {
			ignored++
		}
	}

	if wraps >= 2 {
		out = appendSignal(out, "go.errors.errorf_wrap")
	}
	if sentinel >= 1 {
		out = appendSignal(out, "go.errors.errors_sentinel")
	}
	if bare >= 2 && wraps == 0 {
		out = appendSignal(out, "go.errors.simple_err_return")
	}
	if panics >= 1 {
		out = appendSignal(out, "go.errors.panic_calls")
	}
	if ignored >= 2 {
		out = appendSignal(out, "go.errors.ignored_err")
	}
	return out
}

func pythonErrors(out []report.Signal, info srcInfo) []report.Signal {
	if countRe(info.code, bareExceptRe) >= 1 {
		out = appendSignal(out, "python.errors.bare_except")
	}
	if countRe(info.code, broadExceptRe) >= 1 {
		out = appendSignal(out, "python.errors.broad_except")
	}
	if countRe(info.code, raiseFromRe) >= 1 {
		out = appendSignal(out, "python.errors.raise_from")
	}
	return out
}

func jsErrors(out []report.Signal, src string, info srcInfo) []report.Signal {
	// Empty catch bodies usually span lines, so match the raw text.
	if emptyCatchRe.MatchString(strings.Join(strings.Fields(src), " ")) {
		out = appendSignal(out, "js.errors.empty_catch")
	}
	if countRe(info.code, throwNewRe) >= 2 {
		out = appendSignal(out, "js.errors.throw_new_error")
	}
	if countRe(info.code, promiseCatchRe) >= 2 {
		out = appendSignal(out, "js.errors.promise_catch")
	}
	return out
}

func rustErrors(out []report.Signal, info srcInfo) []report.Signal {
	unwraps := countMatches(info.code, ".unwrap()")
	if unwraps >= 2 {
		out = appendSignal(out, "rust.errors.unwrap")
	}
	if countRe(info.code, expectMsgRe) >= 1 {
		out = appendSignal(out, "rust.errors.expect_message")
	}
	question := 0
	for _, l := range info.code {
		question += strings.Count(l, ")?") + strings.Count(l, "?;")
	}
	if question >= 3 {
		out = appendSignal(out, "rust.errors.question_mark")
	}
	return out
}

func countRe(lines []string, re *regexp.Regexp) int {
	n := 0
	for _, l := range lines {
		if re.MatchString(l) {
			n++
		}
	}
	return n
}
