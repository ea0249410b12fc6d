// Package response turns a severity tier and a set of detected issues into a scripted message.
package response

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/heuristic"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

// Flags are the issue hints that steer phrase selection
type Flags struct {
	ConsoleLogs    bool
	MagicNumbers   bool
	HighComplexity bool
	NestedLoops    bool
	LongFunction   bool
}

// Thresholds used when deriving Flags from heuristic metadata
const (
	HighComplexityScore = 10
	NestedScore         = 5
	LongFunctionLines   = 50
)

// FlagsFrom derives composer hints from local heuristic metadata
func FlagsFrom(md heuristic.Metadata) Flags {
	return Flags{
		ConsoleLogs:    md.ContainsConsoleLogs,
		MagicNumbers:   md.ContainsMagicNumbers,
		HighComplexity: md.ComplexityScore > HighComplexityScore,
		NestedLoops:    md.ComplexityScore > NestedScore,
		LongFunction:   md.Lines > LongFunctionLines,
	}
}

// issues lists the issues named in the suffix, in mention order
func (f Flags) issues() []string {
	var out []string
	if f.ConsoleLogs {
		out = append(out, "console.log")
	}
	if f.MagicNumbers {
		out = append(out, "magic numbers")
	}
	if f.NestedLoops {
		out = append(out, "nested loops")
	}
	return out
}

// Output is a composed message with the emotion that goes with it
type Output struct {
	Message string          `json:"message"`
	Emotion verdict.Emotion `json:"emotion"`
}

// Composer picks phrases at random. Safe for concurrent use.
type Composer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewComposer returns a composer seeded from the clock
func NewComposer() *Composer {
	seed := uint64(time.Now().UnixNano())
	return NewComposerWithRand(rand.New(rand.NewPCG(seed, seed>>1|1)))
}

// NewComposerWithRand returns a composer drawing from rnd, for reproducible output
func NewComposerWithRand(rnd *rand.Rand) *Composer {
	return &Composer{rnd: rnd}
}

func (c *Composer) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return options[c.rnd.IntN(len(options))]
}

// selectPhrase honors nested > long function > complexity > console > magic > general
func (c *Composer) selectPhrase(cat Category, f Flags) string {
	switch {
	case f.NestedLoops && len(cat.Nested) > 0:
		return c.pick(cat.Nested)
	case f.LongFunction && len(cat.LongFunction) > 0:
		return c.pick(cat.LongFunction)
	case f.HighComplexity && len(cat.Complexity) > 0:
		return c.pick(cat.Complexity)
	case f.ConsoleLogs && len(cat.ConsoleLogs) > 0:
		return c.pick(cat.ConsoleLogs)
	case f.MagicNumbers && len(cat.MagicNumbers) > 0:
		return c.pick(cat.MagicNumbers)
	default:
		return c.pick(cat.General)
	}
}

// Generate returns a single phrase for the tier, steered by f
func (c *Composer) Generate(s verdict.Severity, f Flags) Output {
	return Output{
		Message: c.selectPhrase(Phrases(s), f),
		Emotion: verdict.EmotionFor(s),
	}
}

// Compose is Generate plus a clause naming the detected issues: the first two
// when several are present, or a random suffix naming the only one.
func (c *Composer) Compose(s verdict.Severity, f Flags) Output {
	out := c.Generate(s, f)

	switch issues := f.issues(); {
	case len(issues) > 1:
		out.Message += " And " + issues[0] + " AND " + issues[1] + "? Really?"
	case len(issues) == 1:
		out.Message += c.pick(singleIssueSuffixes) + issues[0] + "."
	}
	return out
}

// Inactivity returns an idle nudge
func (c *Composer) Inactivity() Output {
	return Output{
		Message: c.pick(inactivityPhrases),
		Emotion: verdict.EmotionAnnoyed,
	}
}
