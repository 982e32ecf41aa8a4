package analyzers

import (
	"regexp"
	"strings"

	"vibescan/internal/language"
	"vibescan/internal/report"
)

// idiomUsage scores how fluently the file speaks its language's idioms.
type idiomUsage struct{}

func (idiomUsage) Name() string { return "idiom_usage" }

var (
	tableTestRe     = regexp.MustCompile(`tests?\s*:?=\s*\[\]struct\s*\{`)
	ctxFirstRe      = regexp.MustCompile(`func\s+(\(\w+ [^)]+\)\s+)?\w+\(ctx context\.Context`)
	nakedReturnRe   = regexp.MustCompile(`^\s*return\s*$`)
	typeHintRe      = regexp.MustCompile(`def \w+\([^)]*:\s*\w`)
	fStringRe       = regexp.MustCompile(`\bf["']`)
	comprehensionRe = regexp.MustCompile(`\[[^]]+ for \w+ in `)
	percentFmtRe    = regexp.MustCompile(`"[^"]*%[sd][^"]*"\s*%`)
	optChainRe      = regexp.MustCompile(`\?\.|\?\?`)
	varDeclRe       = regexp.MustCompile(`^\s*var\s+\w+\s*=`)
	iterChainRe     = regexp.MustCompile(`\.(iter|into_iter|iter_mut)\(\)\s*$|\.(map|filter|filter_map|fold)\(`)
	indexLoopRe     = regexp.MustCompile(`for \w+ in 0\.\.`)
	deriveRe        = regexp.MustCompile(`#\[derive\(`)
	namedResultsRe  = regexp.MustCompile(`\)\s*\(\w+ [^)]*\w+ (error|\w+)\)`)
)

func (idiomUsage) Analyze(src string, lang language.Language) []report.Signal {
	info := scan(src, lang)
	var out []report.Signal

	switch lang {
	case language.Go:
		out = goIdioms(out, info)
	case language.Python:
		out = pythonIdioms(out, info)
	case language.JavaScript, language.TypeScript:
		out = jsIdioms(out, info)
	case language.Rust:
		out = rustIdioms(out, info)
	}
	return out
}

func goIdioms(out []report.Signal, info srcInfo) []report.Signal {
	hasNamedResults := false
	naked := 0
	for _, l := range info.code {
		if tableTestRe.MatchString(l) {
			out = appendSignal(out, "go.idioms.table_tests")
			break
		}
	}
	if countRe(info.code, ctxFirstRe) >= 1 {
		out = appendSignal(out, "go.idioms.context_first")
	}
	for _, l := range info.code {
		if strings.Contains(l, "func ") && namedResultsRe.MatchString(l) {
			hasNamedResults = true
		}
		if nakedReturnRe.MatchString(l) {
			naked++
		}
	}
	if hasNamedResults && naked >= 2 {
		out = appendSignal(out, "go.idioms.naked_returns")
	}
	for _, l := range info.code {
		if strings.HasPrefix(strings.TrimSpace(l), "func init()") {
			out = appendSignal(out, "go.idioms.init_func")
			break
		}
	}
	return out
}

func pythonIdioms(out []report.Signal, info srcInfo) []report.Signal {
	defs := 0
	hinted := 0
	for _, l := range info.code {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "def ") {
			defs++
			if typeHintRe.MatchString(t) {
				hinted++
			}
		}
	}
	if defs >= 2 && hinted == defs {
		out = appendSignal(out, "python.idioms.type_hints")
	}
	if countRe(info.code, fStringRe) >= 2 {
		out = appendSignal(out, "python.idioms.f_strings")
	}
	if countRe(info.code, comprehensionRe) >= 2 {
		out = appendSignal(out, "python.idioms.comprehensions")
	}
	if countRe(info.code, percentFmtRe) >= 1 {
		out = appendSignal(out, "python.idioms.string_percent")
	}
	return out
}

func jsIdioms(out []report.Signal, info srcInfo) []report.Signal {
	if countRe(info.code, optChainRe) >= 2 {
		out = appendSignal(out, "js.idioms.optional_chaining")
	}
	awaits := countMatches(info.code, "await ")
	thens := countMatches(info.code, ".then(")
	if awaits >= 2 && awaits > thens {
		out = appendSignal(out, "js.idioms.async_await")
	}
	if countRe(info.code, varDeclRe) >= 2 {
		out = appendSignal(out, "js.idioms.var_declarations")
	}
	return out
}

func rustIdioms(out []report.Signal, info srcInfo) []report.Signal {
	if countRe(info.code, iterChainRe) >= 2 {
		out = appendSignal(out, "rust.idioms.iterator_chains")
	}
	if countRe(info.code, indexLoopRe) >= 2 {
		out = appendSignal(out, "rust.idioms.explicit_loops")
	}
	if countRe(info.code, deriveRe) >= 2 {
		out = appendSignal(out, "rust.idioms.derive_macros")
	}
	return out
}
