package substitution

import "testing"

func boolPtr(v bool) *bool { return &v }

func mustEngine(t *testing.T, rules Rules) *Engine {
	t.Helper()
	engine, err := New(rules)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine
}

func TestApplyDefaults(t *testing.T) {
	engine := mustEngine(t, Rules{})
	tests := []struct {
		in, want string
	}{
		{"  the return of the king  ", "The Return of the King"},
		{"what? a: <night>", "What A Night"},
		{"", ""},
		{"   ", ""},
		{"NASA and the iPhone", "NASA and the iPhone"},
	}
	for _, tt := range tests {
		if got := engine.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegexReplacesFirstMatchOnly(t *testing.T) {
	engine := mustEngine(t, Rules{
		TitleCase:          boolPtr(false),
		RegularExpressions: [][]string{{`(\d+)`, "#$1"}},
	})
	if got := engine.Apply("part 1 of 2"); got != "part #1 of 2" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestStringReplacementsReplaceAll(t *testing.T) {
	engine := mustEngine(t, Rules{
		TitleCase: boolPtr(false),
		Strings:   [][]string{{"_", " "}, {"? ", " - "}},
	})
	if got := engine.Apply("a_b_c? d"); got != "a b c - d" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestStripCanBeDisabled(t *testing.T) {
	engine := mustEngine(t, Rules{TitleCase: boolPtr(false), StripInvalidChars: boolPtr(false)})
	if got := engine.Apply("a:b"); got != "a:b" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestFixCaseAfterDashes(t *testing.T) {
	engine := mustEngine(t, Rules{TitleCase: boolPtr(false)})
	if got := engine.Apply("part one – the end - again"); got != "part one – The end - Again" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := engine.Apply("no en dash - here"); got != "no en dash - here" {
		t.Fatalf("hyphen-only line should be untouched, got %q", got)
	}

	disabled := mustEngine(t, Rules{TitleCase: boolPtr(false), FixCaseAfterDashes: boolPtr(false)})
	if got := disabled.Apply("a – b"); got != "a – b" {
		t.Fatalf("disabled dash fix changed line: %q", got)
	}
}

func TestNewRejectsBadRules(t *testing.T) {
	if _, err := New(Rules{RegularExpressions: [][]string{{"([", "x"}}}); err == nil {
		t.Fatal("expected regex compile error")
	}
	if _, err := New(Rules{RegularExpressions: [][]string{{"only-one"}}}); err == nil {
		t.Fatal("expected pair length error")
	}
	if _, err := New(Rules{Strings: [][]string{{"", "x"}}}); err == nil {
		t.Fatal("expected empty search string error")
	}
}

func TestTitleCaseSmallWordsAtEdges(t *testing.T) {
	if got := TitleCase("the end of it all: a story"); got != "The End of It All: A Story" {
		t.Fatalf("unexpected title case %q", got)
	}
	if got := TitleCase("what it is for"); got != "What It Is For" {
		t.Fatalf("unexpected title case %q", got)
	}
}
