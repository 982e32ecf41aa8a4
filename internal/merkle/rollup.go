package merkle

import "vibescan/internal/report"

// Rollup composes child scores into a directory score, weighting each
// child by its line count. Zero-weight children drop out entirely; a
// directory with no weighted children scores human at zero confidence.
func Rollup(children []report.DirScore) report.DirScore {
	total := 0.0
	files := 0
	for _, c := range children {
		if c.Weight <= 0 {
			continue
		}
		total += c.Weight
		files += c.Files
	}

	scores := make(map[report.ModelFamily]float64, len(report.FamilyOrder))
	for _, f := range report.FamilyOrder {
		scores[f] = 0
	}

	if total == 0 {
		return report.DirScore{
			Attribution: report.Attribution{
				Primary:    report.FamilyHuman,
				Confidence: 0,
				Scores:     scores,
			},
		}
	}

	for _, c := range children {
		if c.Weight <= 0 {
			continue
		}
		for _, f := range report.FamilyOrder {
			scores[f] += c.Attribution.Scores[f] * c.Weight / total
		}
	}

	primary := report.FamilyOrder[0]
	best := scores[primary]
	for _, f := range report.FamilyOrder[1:] {
		if scores[f] > best {
			primary = f
			best = scores[f]
		}
	}

	return report.DirScore{
		Attribution: report.Attribution{
			Primary:    primary,
			Confidence: best,
			Scores:     scores,
		},
		Weight: total,
		Files:  files,
	}
}

// FileScore adapts a file report into a roll-up child, weighted by its
// line count.
func FileScore(r report.Report) report.DirScore {
	return report.DirScore{
		Attribution: r.Attribution,
		Weight:      float64(r.Metadata.LinesOfCode),
		Files:       1,
	}
}
