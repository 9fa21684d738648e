package chunker

import "github.com/dgallion1/plainspeak/internal/textnorm"

const tokensPerWord = 1.33

// EstimateTokens approximates a model token count from the word count.
func EstimateTokens(text string) int {
	words := textnorm.CountWords(text)
	if words == 0 {
		return 0
	}
	tokens := int(float64(words) * tokensPerWord)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
