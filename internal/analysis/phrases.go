package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minPhraseWords = 2
	maxPhraseWords = 4
	minPhraseRunes = 10
	maxKeyPhrases  = 10
)

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
}

type phraseCount struct {
	phrase string
	count  int
}

// KeyPhrases returns up to ten 2-4 word n-grams seen more than once,
// most frequent first; ties keep first-seen order.
func KeyPhrases(tokens []string) []string {
	index := make(map[string]int)
	var counts []phraseCount

	for i := range tokens {
		if stopWords[tokens[i]] {
			continue
		}
		for n := minPhraseWords; n <= maxPhraseWords && i+n <= len(tokens); n++ {
			phrase := strings.Join(tokens[i:i+n], " ")
			if utf8.RuneCountInString(phrase) < minPhraseRunes {
				continue
			}
			if at, ok := index[phrase]; ok {
				counts[at].count++
				continue
			}
			index[phrase] = len(counts)
			counts = append(counts, phraseCount{phrase: phrase, count: 1})
		}
	}

	repeated := counts[:0]
	for _, pc := range counts {
		if pc.count > 1 {
			repeated = append(repeated, pc)
		}
	}
	sort.SliceStable(repeated, func(a, b int) bool {
		return repeated[a].count > repeated[b].count
	})

	phrases := []string{}
	for i := 0; i < len(repeated) && i < maxKeyPhrases; i++ {
		phrases = append(phrases, repeated[i].phrase)
	}
	return phrases
}
