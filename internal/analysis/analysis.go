// Package analysis computes readability, jargon and key-phrase metrics for
// normalized text. Every function is pure and total: malformed or empty
// input yields a degenerate but valid result.
package analysis

import (
	"math"
	"strings"

	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/dgallion1/plainspeak/internal/textnorm"
)

// Complexity thresholds, evaluated high first.
const (
	highJargonDensity   = 0.15
	highReadability     = 30.0
	mediumJargonDensity = 0.08
	mediumReadability   = 60.0
)

// Analyze computes the content metrics for normalized text.
func Analyze(text string) document.Analysis {
	words := textnorm.CountWords(text)
	readability := Readability(text)

	if words == 0 {
		return document.Analysis{
			Complexity:         Classify(0, readability),
			JargonDensity:      0,
			TechnicalTerms:     []string{},
			KeyPhrases:         []string{},
			ReadabilityScore:   math.Round(readability),
			SuggestedQuestions: []string{},
		}
	}

	tokens := textnorm.Tokens(text)
	distinct := distinctTerms(tokens)
	density := JargonDensity(len(distinct), words)

	terms := distinct
	if len(terms) > maxTechnicalTerms {
		terms = terms[:maxTechnicalTerms]
	}

	return document.Analysis{
		Complexity:         Classify(density, readability),
		JargonDensity:      density,
		TechnicalTerms:     terms,
		KeyPhrases:         KeyPhrases(tokens),
		ReadabilityScore:   math.Round(readability),
		SuggestedQuestions: SuggestQuestions(strings.ToLower(text), terms),
	}
}

// JargonDensity is terms/words rounded to three decimals.
func JargonDensity(terms, words int) float64 {
	if words <= 0 || terms <= 0 {
		return 0
	}
	return math.Round(float64(terms)/float64(words)*1000) / 1000
}

// Classify maps density and readability to a complexity class. The first
// matching rule wins.
func Classify(density, readability float64) document.Complexity {
	switch {
	case density > highJargonDensity || readability < highReadability:
		return document.ComplexityHigh
	case density > mediumJargonDensity || readability < mediumReadability:
		return document.ComplexityMedium
	default:
		return document.ComplexityLow
	}
}
