package textnorm

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n\n  \r\n", ""},
		{"collapse spaces", "a   b  c", "a b c"},
		{"keep single newline", "line one\nline two", "line one\nline two"},
		{"collapse blank lines", "para one\n\n\n\n\npara two", "para one\n\npara two"},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"trailing spaces before newline", "a   \n   b", "a\nb"},
		{"whitespace-only line counts as blank", "a\n   \n\n \nb", "a\n\nb"},
		{"tab run kept as one tab", "Name\t\tAge  \t City", "Name\tAge\tCity"},
		{"control chars become space", "foo\x00\x07bar\fbaz", "foo bar baz"},
		{"emoji replaced", "hi 😀 there", "hi there"},
		{"bullets and pipes survive", "• item | cell", "• item | cell"},
		{"trim", "   padded text  ", "padded text"},
		{"unicode letters", "Größe café naïve", "Größe café naïve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"  Heading  \n\n\n\nBody\ttext\t\twith\x01junk  \r\n- item\n\n\n",
		"--- Page 1 ---\nIntro\n\n\n--- Page 2 ---\n",
		"a  b c",
		"\t\tleading tabs\n\t indented",
		"{\\rtf1 leftover} © 2024 “quoted”",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestNormalizeBounded(t *testing.T) {
	in := strings.Repeat("word ", 100)
	got := NormalizeBounded(in, 12)
	if got != "word word wo" {
		t.Errorf("expected truncated text, got %q", got)
	}
	if again := Normalize(got); again != got {
		t.Errorf("bounded output should be stable under Normalize, got %q", again)
	}
	if got := NormalizeBounded("a b c", 0); got != "a b c" {
		t.Errorf("expected unbounded normalize, got %q", got)
	}
	// Truncation landing on whitespace must not leave it trailing.
	if got := NormalizeBounded("abc def", 4); got != "abc" {
		t.Errorf("expected trailing space trimmed, got %q", got)
	}
}

func TestWordsAndCountWordsAgree(t *testing.T) {
	inputs := []string{"", "one", "  two  words ", "tab\tsep\nline", "a b"}
	for _, in := range inputs {
		if len(Words(in)) != CountWords(in) {
			t.Errorf("Words/CountWords disagree for %q: %d vs %d", in, len(Words(in)), CountWords(in))
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("The Mitigation, strategy... (really) -- OK!")
	want := []string{"the", "mitigation", "strategy", "really", "ok"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
