package analyzers

import (
	"regexp"
	"strings"

	"vibescan/internal/language"
	"vibescan/internal/report"
)

// commentStyle scores how the file comments: density, narration
// patterns, bullets, and references to the world outside the codebase.
type commentStyle struct{}

func (commentStyle) Name() string { return "comment_style" }

var (
	stepNumberedRe = regexp.MustCompile(`^(?i)(step\s+)?\d+[.):]\s`)
	issueRefRe     = regexp.MustCompile(`(#\d{2,}|[A-Z]{2,}-\d+|\bissue\b|\bticket\b)`)
	docSectionRe   = regexp.MustCompile(`(?i)^(args|arguments|returns|raises|parameters|params|errors|examples?):`)
)

func (commentStyle) Analyze(src string, lang language.Language) []report.Signal {
	info := scan(src, lang)
	code := len(info.code)
	comments := len(info.comments)

	var out []report.Signal
	prefix := lang.Code()

	if code >= 10 {
		ratio := float64(comments) / float64(code)
		if ratio > 0.35 {
			out = appendSignal(out, prefix+".comments.high_density")
		} else if code > 30 && ratio < 0.05 {
			out = appendSignal(out, prefix+".comments.low_density")
		}
	}

	numbered := 0
	bullets := 0
	short := 0
	for _, c := range info.comments {
		if stepNumberedRe.MatchString(c) {
			numbered++
		}
		if strings.HasPrefix(c, "- ") || strings.HasPrefix(c, "* ") {
			bullets++
		}
		if words := len(strings.Fields(c)); words > 0 && words <= 3 {
			short++
		}
	}

	if numbered >= 2 {
		out = appendSignal(out, prefix+".comments.step_numbered")
	}
	if bullets >= 3 {
		out = appendSignal(out, prefix+".comments.bullet_style")
	}
	if comments >= 4 && short*2 > comments && numbered == 0 {
		out = appendSignal(out, prefix+".comments.minimal")
	}

	for _, c := range info.comments {
		if strings.Contains(c, "http://") || strings.Contains(c, "https://") || issueRefRe.MatchString(c) {
			out = appendSignal(out, prefix+".comments.external_refs")
			break
		}
	}

	for _, c := range info.comments {
		if docSectionRe.MatchString(c) {
			out = appendSignal(out, prefix+".comments.doc_sections")
			break
		}
	}

	return out
}
