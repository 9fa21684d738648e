package textnorm

import (
	"strings"
	"unicode"
)

// Words splits text on whitespace. Every word count in the service uses
// this function so metadata and analysis never disagree.
func Words(text string) []string {
	return strings.Fields(text)
}

// CountWords is len(Words(text)) without allocating the slice.
func CountWords(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// Tokens returns Words lowercased with leading and trailing punctuation
// trimmed. Words that are pure punctuation are dropped.
func Tokens(text string) []string {
	words := Words(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w == "" {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}
