// Package textnorm cleans extracted text and owns the word-splitting rule
// shared by every component that counts words.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// punctuation lists the non-alphanumeric runes kept by Normalize.
const punctuation = ".,;:!?'\"`()[]{}<>-_/\\|@#$%&*+=~^" +
	"•·–—‘’“”«»…§¶°€£¥¢©®™"

// Normalize returns text with control artifacts removed, horizontal
// whitespace collapsed, at most one blank line between paragraphs and no
// surrounding whitespace. It is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var sb strings.Builder
	sb.Grow(len(text))

	newlines := 0  // pending newline run
	pendingWS := 0 // 0 none, 1 space, 2 tab
	for _, r := range text {
		if r == utf8.RuneError || !allowed(r) {
			r = ' '
		}
		switch {
		case r == '\n':
			// Horizontal whitespace before a newline is dropped.
			pendingWS = 0
			newlines++
		case unicode.IsSpace(r):
			// Horizontal whitespace after a newline is dropped too.
			if newlines > 0 {
				continue
			}
			if r == '\t' {
				pendingWS = 2
			} else if pendingWS == 0 {
				pendingWS = 1
			}
		default:
			if newlines > 0 {
				if newlines > 2 {
					newlines = 2
				}
				if sb.Len() > 0 {
					sb.WriteString(strings.Repeat("\n", newlines))
				}
				newlines = 0
			} else if pendingWS > 0 && sb.Len() > 0 {
				if pendingWS == 2 {
					sb.WriteByte('\t')
				} else {
					sb.WriteByte(' ')
				}
			}
			pendingWS = 0
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NormalizeBounded normalizes text and caps the result at maxRunes runes.
// A non-positive maxRunes means no bound.
func NormalizeBounded(text string, maxRunes int) string {
	out := Normalize(text)
	if maxRunes <= 0 || utf8.RuneCountInString(out) <= maxRunes {
		return out
	}
	n := 0
	for i := range out {
		if n == maxRunes {
			out = out[:i]
			break
		}
		n++
	}
	return strings.TrimSpace(out)
}

func allowed(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
		return true
	}
	if r == '\n' || r == '\t' || r == ' ' {
		return true
	}
	if unicode.IsSpace(r) {
		// Other space separators (NBSP, thin space) are kept as whitespace.
		return !unicode.IsControl(r)
	}
	return strings.ContainsRune(punctuation, r)
}
