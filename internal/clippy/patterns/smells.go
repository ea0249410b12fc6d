package patterns

import "regexp"

// Thresholds for the count-based smells
const (
	ConsoleSpamThreshold     = 10
	MagicNumberSpamThreshold = 5
	ExcessiveNestingDepth    = 3
)

var (
	sillyIdentifierRes = []*regexp.Regexp{
		regexp.MustCompile(`\b[abc]\b`),
		regexp.MustCompile(`\bx1\b`),
		regexp.MustCompile(`\btemp\d+\b`),
		regexp.MustCompile(`(?i)\b(?:lol|omg|idk|zzz|foo|bar|asdf)\b`),
		regexp.MustCompile(`(?i)\btest\d+\b`),
	}

	memeIdentifierRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:wtf|foofoo|yolo|lmao)\b`),
		regexp.MustCompile(`\ba1\b`),
		regexp.MustCompile(`(?i)\baaaa+\b`),
	}

	constantConditionRe = regexp.MustCompile(`\bif\s*\(\s*(?:true|false)\s*\)`)
	oldTodoRe           = regexp.MustCompile(`TODO.*\b20(?:1\d|2[0-3])\b`)
	selfComparisonRe    = mustCompile2(`\bif\s*\(\s*(\w+)\s*[=!]==?\s*\1\s*\)`)
	// a complete return statement followed, at the same indentation, by a line that
	// does not close the block, continue the expression or start another branch.
	// The semicolon is optional so Python and semicolon-free JavaScript are covered.
	unreachableRe = mustCompile2(`(?m)^([ \t]*)return\b(?:[^;\n]*;|[^;\n]*[\w'"\)\]])?[ \t]*\r?\n\1(?![\})\].]|case\b|default\b|else\b|elif\b|except\b|finally\b|//|#)\S`)

	constantReturnFuncRe = regexp.MustCompile(`\bfunction\s+\w+\s*\([^)]*\)\s*\{\s*return\s+(?:true|false|null|undefined|\d+)\s*;\s*\}`)
	boolReturnIfRe       = regexp.MustCompile(`\bif\s*\([^)]+\)\s*\{\s*return\s+true\s*;\s*\}\s*return\s+false`)

	varKeywordRe    = regexp.MustCompile(`\bvar\b`)
	looseEqualityRe = regexp.MustCompile(`[^=!]==[^=]`)
	emptyCatchRe    = regexp.MustCompile(`\bcatch\s*\([^)]*\)\s*\{\s*\}`)
)

func anyMatch(res []*regexp.Regexp, content string) bool {
	for _, re := range res {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

// DetectConsoleSpam fires on ten or more console calls
func DetectConsoleSpam(content string) bool {
	return CountConsoleCalls(content) >= ConsoleSpamThreshold
}

// DetectSillyIdentifiers fires on throwaway names like a, temp1, foo or asdf
func DetectSillyIdentifiers(content string) bool {
	return anyMatch(sillyIdentifierRes, content)
}

// DetectMemeIdentifiers fires on joke names like wtf, yolo or aaaa
func DetectMemeIdentifiers(content string) bool {
	return anyMatch(memeIdentifierRes, content)
}

// DetectBeginnerMistakes fires on constant conditions, self comparisons,
// code after a return and TODOs dated before 2024.
func DetectBeginnerMistakes(content string) bool {
	return constantConditionRe.MatchString(content) ||
		match2(selfComparisonRe, content) ||
		match2(unreachableRe, content) ||
		oldTodoRe.MatchString(content)
}

// DetectPointlessLogic fires on constant-returning functions and
// if-return-true-else-return-false blocks.
func DetectPointlessLogic(content string) bool {
	return constantReturnFuncRe.MatchString(content) || boolReturnIfRe.MatchString(content)
}

// DetectExcessiveNesting fires when conditional depth reaches three
func DetectExcessiveNesting(content string) bool {
	return MaxIfDepth(content) >= ExcessiveNestingDepth
}

// DetectLazyMistakes fires on var declarations, loose equality and empty catch blocks
func DetectLazyMistakes(content string) bool {
	return varKeywordRe.MatchString(content) ||
		looseEqualityRe.MatchString(content) ||
		emptyCatchRe.MatchString(content)
}

// DetectMagicNumberSpam fires on five or more unexplained numeric literals
func DetectMagicNumberSpam(content string) bool {
	return CountMagicNumbers(content) >= MagicNumberSpamThreshold
}

// Smells holds the eight independent smell flags
type Smells struct {
	ConsoleSpam      bool `json:"consoleSpam"`
	SillyIdentifiers bool `json:"sillyIdentifiers"`
	MemeIdentifiers  bool `json:"memeIdentifiers"`
	BeginnerMistake  bool `json:"beginnerMistake"`
	PointlessLogic   bool `json:"pointlessLogic"`
	ExcessiveNesting bool `json:"excessiveNesting"`
	LazyMistake      bool `json:"lazyMistake"`
	MagicNumberSpam  bool `json:"magicNumberSpam"`
}

// Detect runs every detector against content
func Detect(content string) Smells {
	return Smells{
		ConsoleSpam:      DetectConsoleSpam(content),
		SillyIdentifiers: DetectSillyIdentifiers(content),
		MemeIdentifiers:  DetectMemeIdentifiers(content),
		BeginnerMistake:  DetectBeginnerMistakes(content),
		PointlessLogic:   DetectPointlessLogic(content),
		ExcessiveNesting: DetectExcessiveNesting(content),
		LazyMistake:      DetectLazyMistakes(content),
		MagicNumberSpam:  DetectMagicNumberSpam(content),
	}
}

// Any reports whether at least one smell fired
func (s Smells) Any() bool {
	return s.ConsoleSpam || s.SillyIdentifiers || s.MemeIdentifiers || s.BeginnerMistake ||
		s.PointlessLogic || s.ExcessiveNesting || s.LazyMistake || s.MagicNumberSpam
}

// Laugh reasons in priority order
const (
	ReasonBeginner    = "Beginner mistakes detected - did you copy this from Stack Overflow blindly? 📚"
	ReasonMeme        = "Meme variable names detected - is this code or a joke? 🤡"
	ReasonPointless   = "Pointless logic detected - why even write this function? 🤦"
	ReasonConsoleSpam = "Console.log spam detected - are you debugging with a machine gun? 🔫"
	ReasonSilly       = "Silly variable names detected - did a cat walk on your keyboard? 🐱"
	ReasonLazy        = "Rookie mistakes detected - did you learn coding from a fortune cookie? 🥠"
	ReasonMagic       = "Magic number spam - are these lottery numbers or code? 🎰"
	ReasonNesting     = "Pointless nesting detected - building a house of cards? 🏠"
)

// Reason returns the highest-priority laugh reason, or "" when nothing fired
func (s Smells) Reason() string {
	switch {
	case s.BeginnerMistake:
		return ReasonBeginner
	case s.MemeIdentifiers:
		return ReasonMeme
	case s.PointlessLogic:
		return ReasonPointless
	case s.ConsoleSpam:
		return ReasonConsoleSpam
	case s.SillyIdentifiers:
		return ReasonSilly
	case s.LazyMistake:
		return ReasonLazy
	case s.MagicNumberSpam:
		return ReasonMagic
	case s.ExcessiveNesting:
		return ReasonNesting
	default:
		return ""
	}
}
