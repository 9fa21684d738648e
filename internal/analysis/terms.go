package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTechnicalTerms = 20
	longWordRunes     = 8 // exclusive
)

var termSuffixes = []string{"tion", "sion", "ment", "ness", "ity", "ism", "ology"}

// IsTechnicalTerm reports whether a lowercase token counts as jargon: all
// letters, and either longer than eight runes or carrying a nominal suffix.
func IsTechnicalTerm(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) || unicode.IsUpper(r) {
			return false
		}
	}
	if utf8.RuneCountInString(token) > longWordRunes {
		return true
	}
	for _, s := range termSuffixes {
		if strings.HasSuffix(token, s) {
			return true
		}
	}
	return false
}

// TechnicalTerms returns distinct technical terms in first-occurrence
// order, capped at 20.
func TechnicalTerms(tokens []string) []string {
	terms := distinctTerms(tokens)
	if len(terms) > maxTechnicalTerms {
		terms = terms[:maxTechnicalTerms]
	}
	return terms
}

func distinctTerms(tokens []string) []string {
	terms := []string{}
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if seen[tok] || !IsTechnicalTerm(tok) {
			continue
		}
		seen[tok] = true
		terms = append(terms, tok)
	}
	return terms
}
