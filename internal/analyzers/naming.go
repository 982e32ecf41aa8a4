package analyzers

import (
	"regexp"
	"strings"

	"vibescan/internal/language"
	"vibescan/internal/report"
)

// naming scores identifier style: length, case conventions, and
// abbreviation habits. Identifiers are pulled lexically, which is close
// enough for scoring without a full parse.
type naming struct{}

func (naming) Name() string { return "naming" }

var (
	identRe     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	camelRe     = regexp.MustCompile(`^[a-z]+[A-Z]`)
	snakeRe     = regexp.MustCompile(`^[a-z]+_[a-z]`)
	loopIndices = map[string]bool{"i": true, "j": true, "k": true, "n": true, "_": true}
)

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "return": true,
	"func": true, "def": true, "fn": true, "let": true, "var": true,
	"const": true, "type": true, "struct": true, "class": true, "import": true,
	"package": true, "pub": true, "use": true, "mod": true, "match": true,
	"range": true, "nil": true, "true": true, "false": true, "None": true,
	"self": true, "this": true, "new": true, "in": true, "not": true,
	"and": true, "or": true, "async": true, "await": true, "function": true,
	"export": true, "default": true, "from": true, "switch": true, "case": true,
}

var abbreviations = map[string]bool{
	"cfg": true, "mgr": true, "svc": true, "cnt": true, "idx": true,
	"val": true, "tmp": true, "obj": true, "arr": true,
	"num": true, "btn": true, "msg": true,
}

func (naming) Analyze(src string, lang language.Language) []report.Signal {
	info := scan(src, lang)
	var out []report.Signal
	prefix := lang.Code()

	seen := make(map[string]bool)
	var idents []string
	for _, l := range info.code {
		for _, tok := range identRe.FindAllString(l, -1) {
			if keywords[tok] || seen[tok] {
				continue
			}
			seen[tok] = true
			idents = append(idents, tok)
		}
	}
	if len(idents) < 8 {
		return out
	}

	totalLen := 0
	singles := 0
	abbrevs := 0
	camels := 0
	snakes := 0
	for _, id := range idents {
		totalLen += len(id)
		if len(id) == 1 && !loopIndices[id] {
			singles++
		}
		if abbreviations[strings.ToLower(id)] {
			abbrevs++
		}
		if camelRe.MatchString(id) {
			camels++
		}
		if snakeRe.MatchString(id) {
			snakes++
		}
	}

	if float64(totalLen)/float64(len(idents)) > 12 {
		out = appendSignal(out, prefix+".naming.descriptive_long")
	}
	if singles >= 3 {
		out = appendSignal(out, prefix+".naming.single_letter")
	}
	if abbrevs >= 3 {
		out = appendSignal(out, prefix+".naming.abbreviated")
	}

	// Go and JS are camelCase languages; Python and Rust are snake_case.
	// A strong minority of the other convention reads as human churn.
	minority := snakes
	if lang == language.Python || lang == language.Rust {
		minority = camels
	}
	if minority >= 3 && minority*4 >= len(idents) {
		out = appendSignal(out, prefix+".naming.mixed_convention")
	}

	return out
}
