// Package patterns recognizes lexical code smells in source text.
//
// Every detector is a pure function over the file content. Patterns are
// language-agnostic and tuned for C-like syntax (JavaScript, TypeScript,
// Java, Go) with a few Python affordances.
package patterns

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/dimasma0305/evilclippy/internal/log"
)

// matchTimeout bounds every backtracking pattern so a pathological file cannot stall the watcher
const matchTimeout = 2 * time.Second

var (
	consoleCallRe = regexp.MustCompile(`console\.(log|warn|error|debug|info)`)
	functionRe    = regexp.MustCompile(`(?:\bfunction\b|=>|\bdef\b|\bfunc\b)[^{]*\{`)
	returnRe      = regexp.MustCompile(`\breturn\b`)
	ifOpenRe      = regexp.MustCompile(`\bif\s*\(`)
)

// nestedRes match the head of a construct whose body directly contains the same construct.
// The body is inspected through a lookahead so nested levels overlap and each level counts.
var nestedRes = []*regexp2.Regexp{
	mustCompile2(`\bfor\s*\((?=[^)]*\)\s*\{[^}]*\bfor\s*\()`),
	mustCompile2(`\bwhile\s*\((?=[^)]*\)\s*\{[^}]*\bwhile\s*\()`),
	mustCompile2(`\bif\s*\((?=[^)]*\)\s*\{[^}]*\bif\s*\()`),
}

// numericLiteralRe finds standalone integer and decimal literals, optionally negative
var numericLiteralRe = mustCompile2(`(?<![\w.$])-?\d+(?:\.\d+)?(?![\w.])`)

// safeNumbers never count as magic
var safeNumbers = map[float64]bool{0: true, 1: true, -1: true, 100: true}

func mustCompile2(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = matchTimeout
	return re
}

// match2 reports whether re matches content. Engine errors (timeouts) count as no match.
func match2(re *regexp2.Regexp, content string) bool {
	ok, err := re.MatchString(content)
	if err != nil {
		log.Debug("[patterns] %s: %v", re.String(), err)
		return false
	}
	return ok
}

// each2 calls fn for every non-overlapping match of re in content
func each2(re *regexp2.Regexp, content string, fn func(string)) {
	m, err := re.FindStringMatch(content)
	for m != nil && err == nil {
		fn(m.String())
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		log.Debug("[patterns] %s: %v", re.String(), err)
	}
}

func count2(re *regexp2.Regexp, content string) int {
	n := 0
	each2(re, content, func(string) { n++ })
	return n
}

// LineCount counts lines the way an editor does: a trailing newline starts an empty last line
func LineCount(content string) int {
	return strings.Count(content, "\n") + 1
}

// CountConsoleCalls counts console.log/warn/error/debug/info occurrences
func CountConsoleCalls(content string) int {
	return len(consoleCallRe.FindAllStringIndex(content, -1))
}

// CountNestedPatterns counts loop-in-loop and conditional-in-conditional occurrences
func CountNestedPatterns(content string) int {
	total := 0
	for _, re := range nestedRes {
		total += count2(re, content)
	}
	return total
}

// HasFunction reports whether content declares at least one function-like construct
func HasFunction(content string) bool {
	return functionRe.MatchString(content)
}

// CountReturns counts return keywords
func CountReturns(content string) int {
	return len(returnRe.FindAllStringIndex(content, -1))
}

// CountMagicNumbers counts numeric literals outside {0, 1, -1, 100}
func CountMagicNumbers(content string) int {
	n := 0
	each2(numericLiteralRe, content, func(lit string) {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil || safeNumbers[v] {
			return
		}
		n++
	})
	return n
}

// MaxIfDepth tracks conditional nesting line by line: each line with an `if (`
// opens a level (its own opening brace included), then the remaining brace
// balance of the line is applied, never going below zero.
func MaxIfDepth(content string) int {
	maxDepth, depth := 0, 0
	for _, line := range strings.Split(content, "\n") {
		opens := strings.Count(line, "{")
		if ifOpenRe.MatchString(line) {
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
			if opens > 0 {
				opens--
			}
		}
		depth += opens - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
	}
	return maxDepth
}
