package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/plainspeak/internal/textnorm"
)

func TestKeyPhrases_RepeatedOnly(t *testing.T) {
	tokens := textnorm.Tokens("Machine learning models improve. Machine learning models scale. Data pipelines matter.")
	assert.Equal(t, []string{"machine learning", "machine learning models", "learning models"}, KeyPhrases(tokens))
}

func TestKeyPhrases_FrequencyOrder(t *testing.T) {
	tokens := textnorm.Tokens("alpha beta gamma. delta epsilon zeta. delta epsilon zeta. delta epsilon again. alpha beta again.")
	got := KeyPhrases(tokens)
	if assert.NotEmpty(t, got) {
		assert.Equal(t, "delta epsilon", got[0])
	}
	assert.Contains(t, got, "alpha beta")
}

func TestKeyPhrases_Exclusions(t *testing.T) {
	// Short phrases and phrases starting with a stop word never qualify.
	tokens := textnorm.Tokens("big cat big cat in the garden in the garden")
	got := KeyPhrases(tokens)
	assert.NotContains(t, got, "big cat")
	assert.NotContains(t, got, "in the garden")
	assert.NotContains(t, got, "the garden")
}

func TestKeyPhrases_CappedAtTen(t *testing.T) {
	var text string
	words := []string{"apple", "banana", "cherry", "damson", "elderberry", "fig", "grape", "honeydew", "kiwi", "lemon", "mango", "nectarine"}
	for i := 0; i+1 < len(words); i++ {
		pair := words[i] + "x " + words[i+1] + "x. "
		text += pair + pair
	}
	got := KeyPhrases(textnorm.Tokens(text))
	assert.Len(t, got, maxKeyPhrases)
}

func TestKeyPhrases_Empty(t *testing.T) {
	assert.Equal(t, []string{}, KeyPhrases(nil))
}
