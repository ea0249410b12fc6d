package patterns

import (
	"strings"
	"testing"
)

func repeatLines(line string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 1},
		{"one", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 3},
	}
	for _, tt := range tests {
		if got := LineCount(tt.content); got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestCountConsoleCalls(t *testing.T) {
	content := "console.log(x)\nconsole.warn(y)\nconsole.table(z)\nconsole.error(e); console.info(i); console.debug(d)"
	if got := CountConsoleCalls(content); got != 5 {
		t.Errorf("CountConsoleCalls() = %d, want 5", got)
	}
}

func TestCountNestedPatterns(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "flat loop",
			content: "for (let i = 0; i < n; i++) { total += i; }",
			want:    0,
		},
		{
			name:    "loop in loop",
			content: "for (let i = 0; i < n; i++) {\n  for (let j = 0; j < n; j++) {\n    total += j;\n  }\n}",
			want:    1,
		},
		{
			name: "four levels count every nesting",
			content: "for (const w of ws) {\n for (const x of xs) {\n  for (const y of ys) {\n   for (const z of zs) {\n" +
				"    total += z;\n   }\n  }\n }\n}",
			want: 3,
		},
		{
			name:    "while and if nesting",
			content: "while (running) {\n  while (busy) { tick(); }\n}\nif (ready) {\n  if (armed) { fire(); }\n}",
			want:    2,
		},
		{
			name:    "closed block breaks nesting",
			content: "for (const x of xs) { handle(x); }\nfor (const y of ys) { handle(y); }",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountNestedPatterns(tt.content); got != tt.want {
				t.Errorf("CountNestedPatterns() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasFunction(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"function run() { return; }", true},
		{"const run = () => { go(); }", true},
		{"def run(self) { }", true},
		{"func run() {\n}", true},
		{"let x = compute;", false},
	}
	for _, tt := range tests {
		if got := HasFunction(tt.content); got != tt.want {
			t.Errorf("HasFunction(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestCountReturns(t *testing.T) {
	content := "return a;\nreturned = 1;\nreturn;\nif (x) return y;"
	if got := CountReturns(content); got != 3 {
		t.Errorf("CountReturns() = %d, want 3", got)
	}
}

func TestCountMagicNumbers(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"safe set", "x = 0; y = 1; z = -1; w = 100;", 0},
		{"integers and decimals", "timeout = 3000; ratio = 0.75; retries = 7;", 3},
		{"negative literal", "offset = -42;", 1},
		{"identifiers with digits", "x1 = temp2 + a1;", 0},
		{"hex and versions", "mask = 0xFF; version = \"1.2.3\";", 0},
		{"subtraction of one", "last = len-1;", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountMagicNumbers(tt.content); got != tt.want {
				t.Errorf("CountMagicNumbers(%q) = %d, want %d", tt.content, got, tt.want)
			}
		})
	}
}

func TestMaxIfDepth(t *testing.T) {
	content := `if (a) {
  if (b) {
    if (c) {
      go();
    }
  }
}`
	if got := MaxIfDepth(content); got < 3 {
		t.Errorf("MaxIfDepth() = %d, want at least 3", got)
	}
	if got := MaxIfDepth("if (a) { go(); }\nif (b) { stop(); }"); got != 1 {
		t.Errorf("MaxIfDepth() of sibling ifs = %d, want 1", got)
	}
	if got := MaxIfDepth("}}}\nif (a) { x(); }"); got != 1 {
		t.Errorf("MaxIfDepth() should clamp at zero, got %d", got)
	}
}
