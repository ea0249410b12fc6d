package remote

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultSnippetLines bounds how much of a file is sent to the model
const DefaultSnippetLines = 50

const truncationMarker = "\n// ... (truncated)"

var languageByExt = map[string]string{
	".ts":  "typescript",
	".tsx": "typescript",
	".js":  "javascript",
	".jsx": "javascript",
	".py":  "python",
	".go":  "go",
}

var detectedPatterns = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`(?i)useState.*\(.*for\s*\(`), "React hooks in loop"},
	{regexp.MustCompile(`(?i)eval\s*\(`), "eval() usage"},
	{regexp.MustCompile(`(?i)innerHTML\s*=`), "innerHTML assignment"},
	{regexp.MustCompile(`(?i)SELECT.*FROM.*WHERE.*\$\{`), "SQL injection risk"},
	{regexp.MustCompile(`(?i)console\.(log|warn|error)`), "Debug console statements"},
}

// DetectLanguage maps a file extension to a code fence language, defaulting to javascript
func DetectLanguage(path string) string {
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "javascript"
}

// DetectPattern returns a hint for the first risky construct found, or ""
func DetectPattern(content string) string {
	for _, p := range detectedPatterns {
		if p.re.MatchString(content) {
			return p.hint
		}
	}
	return ""
}

// ExtractSnippet keeps the first maxLines lines of content and marks the cut
func ExtractSnippet(content string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = DefaultSnippetLines
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n") + truncationMarker
}

// BuildPrompt renders the instruction sent to the model
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.Grow(len(req.Code) + 2048)

	b.WriteString(`You are Evil Clippy - sarcastic code critic with dark humor.

CRITICAL RULES:
- ALWAYS mention SPECIFIC line numbers or code snippets
- Point out EXACT problems (variable names, function calls, etc.)
- Give CONCRETE solutions, not vague advice
- Be sarcastic but TECHNICALLY PRECISE
- MAXIMUM 2 SHORT SENTENCES

SEVERITY:
HIGH - Security holes, crashes, data loss, critical bugs
MEDIUM - Bad practices, anti-patterns, performance issues
LOW - Style issues, minor problems, code smells

`)
	b.WriteString("FILE: " + req.FilePath + "\n")
	if req.DetectedPattern != "" {
		b.WriteString("DETECTED ISSUE: " + req.DetectedPattern + "\n")
	}
	b.WriteString("\nCODE:\n```" + req.Language + "\n")
	b.WriteString(req.Code)
	b.WriteString("\n```\n")
	b.WriteString(`
RESPOND IN JSON:
{
  "severity": "low|medium|high",
  "insult": "2 SHORT sentences with SPECIFIC code reference",
  "advice": "CONCRETE fix with code example if possible",
  "reason": "Technical explanation",
  "confidence": 0.9
}

GOOD EXAMPLES (SPECIFIC!):
- "SQL injection in line 5? Use db.query('SELECT * FROM users WHERE id = ?', [userId])."
- "eval(userInput) on line 12. You just opened the gates of hell."
- "useState in a loop (line 8)? React hooks must be at top level."
- "Hardcoded API key on line 3. Use environment variables."

BAD EXAMPLES (TOO VAGUE):
- "Your code has issues. Fix them."
- "This is bad. Do better."

BE BRUTAL, SPECIFIC, AND HELPFUL!`)
	return b.String()
}
