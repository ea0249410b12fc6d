// Package heuristic scores file content locally, without any network access.
package heuristic

import (
	"github.com/dimasma0305/evilclippy/internal/clippy/patterns"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

// Scoring constants
const (
	NestedPatternWeight = 3
	LongFileLines       = 50
	LongFileWeight      = 2
	ReturnAllowance     = 3

	HighThreshold   = 15
	MediumThreshold = 8
)

// Metadata is everything the local analyzer learned about one file
type Metadata struct {
	Lines                int             `json:"lines"`
	ComplexityScore      int             `json:"complexityScore"`
	NestedPatterns       int             `json:"nestedPatterns"`
	ContainsConsoleLogs  bool            `json:"containsConsoleLogs"`
	ContainsMagicNumbers bool            `json:"containsMagicNumbers"`
	Smells               patterns.Smells `json:"smells"`
}

// Result pairs the metadata with the derived severity tier and laugh verdict
type Result struct {
	Metadata
	Severity    verdict.Severity `json:"severity"`
	ShouldLaugh bool             `json:"shouldLaugh"`
	LaughReason string           `json:"laughReason,omitempty"`
}

// Score returns the additive complexity score of content
func Score(content string) int {
	score, _ := score(content)
	return score
}

func score(content string) (int, int) {
	lines := patterns.LineCount(content)
	nested := patterns.CountNestedPatterns(content)

	score := nested * NestedPatternWeight
	if lines > LongFileLines && patterns.HasFunction(content) {
		score += (lines / LongFileLines) * LongFileWeight
	}
	if returns := patterns.CountReturns(content); returns > ReturnAllowance {
		score += returns - ReturnAllowance
	}
	return score, nested
}

// SeverityFor maps a score and the two lexical signals to a tier.
// Low is the floor; there is no "none" tier.
func SeverityFor(score int, console, magic bool) verdict.Severity {
	switch {
	case score >= HighThreshold:
		return verdict.SeverityHigh
	case score >= MediumThreshold, console && magic:
		return verdict.SeverityMedium
	default:
		return verdict.SeverityLow
	}
}

// Analyze runs every detector over content. Severity is derived only from the
// score and the console/magic signals; the laugh verdict only from smells.
func Analyze(content string) Result {
	score, nested := score(content)
	md := Metadata{
		Lines:                patterns.LineCount(content),
		ComplexityScore:      score,
		NestedPatterns:       nested,
		ContainsConsoleLogs:  patterns.CountConsoleCalls(content) > 0,
		ContainsMagicNumbers: patterns.CountMagicNumbers(content) > 0,
		Smells:               patterns.Detect(content),
	}

	return Result{
		Metadata:    md,
		Severity:    SeverityFor(md.ComplexityScore, md.ContainsConsoleLogs, md.ContainsMagicNumbers),
		ShouldLaugh: md.Smells.Any(),
		LaughReason: md.Smells.Reason(),
	}
}
