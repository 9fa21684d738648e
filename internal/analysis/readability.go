package analysis

import (
	"strings"

	"github.com/dgallion1/plainspeak/internal/textnorm"
)

// Readability approximates Flesch Reading Ease:
//
//	206.835 - 1.015*(words/sentences) - 84.6*(syllables/words)
//
// Denominators are floored at 1. The result is not rounded.
func Readability(text string) float64 {
	words := textnorm.Words(text)
	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}
	sentences := CountSentences(text)

	wordDiv := float64(max(len(words), 1))
	sentenceDiv := float64(max(sentences, 1))

	return 206.835 -
		1.015*(float64(len(words))/sentenceDiv) -
		84.6*(float64(syllables)/wordDiv)
}

// CountSentences counts non-empty segments between '.', '!' and '?'.
func CountSentences(text string) int {
	n := 0
	for _, seg := range strings.FieldsFunc(text, isSentenceEnd) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// CountSyllables estimates syllables as the number of maximal vowel runs,
// with a minimum of one per word.
func CountSyllables(word string) int {
	n := 0
	inVowel := false
	for _, r := range strings.ToLower(word) {
		if strings.ContainsRune("aeiouy", r) {
			if !inVowel {
				n++
			}
			inVowel = true
		} else {
			inVowel = false
		}
	}
	return max(n, 1)
}
