package analysis

import (
	"fmt"
	"strings"
)

const (
	maxQuestions     = 5
	maxTermsInPrompt = 3
)

type topicQuestions struct {
	keywords  []string
	questions []string
}

// Topic rules are applied in this order.
var topics = []topicQuestions{
	{
		keywords: []string{"contract", "agreement"},
		questions: []string{
			"What are my obligations under this agreement?",
			"What happens if either party breaks the terms of this contract?",
		},
	},
	{
		keywords: []string{"policy", "insurance"},
		questions: []string{
			"What does this policy cover and what does it exclude?",
			"How do I make a claim under this policy?",
		},
	},
	{
		keywords: []string{"medical", "diagnosis"},
		questions: []string{
			"What does this diagnosis mean in plain language?",
			"What treatment options or next steps does this document mention?",
		},
	},
}

var genericQuestions = []string{
	"Can you summarize this document in simple terms?",
	"What are the most important points I should know?",
}

// SuggestQuestions builds the ordered question list for lowercased text:
// a terminology question, then topic questions, then generic ones, capped
// at five.
func SuggestQuestions(lowerText string, terms []string) []string {
	var qs []string
	if len(terms) > 0 {
		named := terms
		if len(named) > maxTermsInPrompt {
			named = named[:maxTermsInPrompt]
		}
		qs = append(qs, fmt.Sprintf("What do these terms mean: %s?", strings.Join(named, ", ")))
	}
	for _, topic := range topics {
		for _, kw := range topic.keywords {
			if strings.Contains(lowerText, kw) {
				qs = append(qs, topic.questions...)
				break
			}
		}
	}
	qs = append(qs, genericQuestions...)

	if len(qs) > maxQuestions {
		qs = qs[:maxQuestions]
	}
	return qs
}
