package patterns

import (
	"strings"
	"testing"
)

func TestDetectors(t *testing.T) {
	tests := []struct {
		name   string
		detect func(string) bool
		hit    []string
		miss   []string
	}{
		{
			name:   "console spam",
			detect: DetectConsoleSpam,
			hit:    []string{repeatLines("console.log(value);", 10)},
			miss:   []string{repeatLines("console.log(value);", 9)},
		},
		{
			name:   "silly identifiers",
			detect: DetectSillyIdentifiers,
			hit:    []string{"let a = 2;", "const temp12 = load();", "let FOO = x;", "asdf()", "test3 = run()"},
			miss:   []string{"let total = sum;", "const tempo = beat;", "abc = 1"},
		},
		{
			name:   "meme identifiers",
			detect: DetectMemeIdentifiers,
			hit:    []string{"const wtf = 1;", "let YOLO = true;", "aaaaa()", "const a1 = x;", "lmao.run()"},
			miss:   []string{"const aaa = 1;", "const A1 = x;", "const yolk = egg;"},
		},
		{
			name:   "beginner mistakes",
			detect: DetectBeginnerMistakes,
			hit: []string{
				"if (true) { go(); }",
				"if ( false ) { go(); }",
				"if (x == x) { go(); }",
				"if (count !== count) { go(); }",
				"function f() {\n  return total;\n  cleanup();\n}",
				"def f():\n    return 1\n    print('x')",
				"function f() {\n  return total\n  cleanup()\n}",
				"def g():\n    return\n    cleanup()",
				"// TODO: remove before 2019 release",
			},
			miss: []string{
				"if (x == y) { go(); }",
				"function f() {\n  return total;\n}",
				"switch (k) {\ncase 1:\n  return one;\ncase 2:\n  return two;\n}",
				"def f():\n    return 1\nprint('x')",
				"def f(x):\n    if x:\n        return 1\n    return 2",
				"function f() {\n  return (\n    a + b\n  )\n}",
				"function f() {\n  return a +\n  b\n}",
				"function f() {\n  return fetch(url)\n  .then(parse)\n}",
				"try:\n    return load()\nexcept KeyError:\n    return None",
				"// TODO: remove in 2025",
				"if (trueish) { go(); }",
			},
		},
		{
			name:   "pointless logic",
			detect: DetectPointlessLogic,
			hit: []string{
				"function isReady() { return true; }",
				"function answer(x) {\n  return 42;\n}",
				"if (user.admin) {\n  return true;\n}\nreturn false;",
			},
			miss: []string{
				"function isReady() { return state.ready; }",
				"if (user.admin) { return grant(); }",
			},
		},
		{
			name:   "excessive nesting",
			detect: DetectExcessiveNesting,
			hit:    []string{"if (a) {\n if (b) {\n  if (c) {\n   go();\n  }\n }\n}"},
			miss:   []string{"if (a) {\n if (b) {\n  go();\n }\n}"},
		},
		{
			name:   "lazy mistakes",
			detect: DetectLazyMistakes,
			hit:    []string{"var count = 0;", "if (a == b) {}", "try { x(); } catch (e) { }"},
			miss:   []string{"let count = 0;", "if (a === b) { go(); }", "try { x(); } catch (e) { report(e); }"},
		},
		{
			name:   "magic number spam",
			detect: DetectMagicNumberSpam,
			hit:    []string{"a(3, 7, 42, 99, 2.5)"},
			miss:   []string{"a(3, 7, 42, 99, 100, 0, 1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, content := range tt.hit {
				if !tt.detect(content) {
					t.Errorf("expected detection for %q", content)
				}
			}
			for _, content := range tt.miss {
				if tt.detect(content) {
					t.Errorf("unexpected detection for %q", content)
				}
			}
		})
	}
}

func TestSmellsReasonPriority(t *testing.T) {
	tests := []struct {
		name   string
		smells Smells
		want   string
	}{
		{"none", Smells{}, ""},
		{"beginner beats magic", Smells{BeginnerMistake: true, MagicNumberSpam: true}, ReasonBeginner},
		{"meme beats pointless", Smells{MemeIdentifiers: true, PointlessLogic: true}, ReasonMeme},
		{"pointless beats console", Smells{PointlessLogic: true, ConsoleSpam: true}, ReasonPointless},
		{"console beats silly", Smells{ConsoleSpam: true, SillyIdentifiers: true}, ReasonConsoleSpam},
		{"silly beats lazy", Smells{SillyIdentifiers: true, LazyMistake: true}, ReasonSilly},
		{"lazy beats magic", Smells{LazyMistake: true, MagicNumberSpam: true}, ReasonLazy},
		{"magic beats nesting", Smells{MagicNumberSpam: true, ExcessiveNesting: true}, ReasonMagic},
		{"nesting alone", Smells{ExcessiveNesting: true}, ReasonNesting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.smells.Reason(); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
			if got := tt.smells.Any(); got != (tt.want != "") {
				t.Errorf("Any() = %v, want %v", got, tt.want != "")
			}
		})
	}
}

func TestDetectBeginnerAndMagicTogether(t *testing.T) {
	content := "if (x == x) {\n  setup(3, 7, 42, 99, 2.5);\n}"
	s := Detect(content)
	if !s.BeginnerMistake || !s.MagicNumberSpam {
		t.Fatalf("expected beginner and magic smells, got %+v", s)
	}
	if !strings.Contains(s.Reason(), "Beginner") {
		t.Errorf("Reason() = %q, want the beginner reason", s.Reason())
	}
}

func TestDetectCleanCode(t *testing.T) {
	content := `export function total(items) {
  let sum = 0;
  for (const item of items) {
    sum += item.price;
  }
  return sum;
}
`
	if s := Detect(content); s.Any() {
		t.Errorf("clean code triggered smells: %+v", s)
	}
}
