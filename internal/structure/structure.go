// Package structure infers sections, headings, lists and tables from
// normalized text using cheap line-level heuristics. The thresholds are
// part of the output contract; do not tune them.
package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/dgallion1/plainspeak/internal/textnorm"
)

// IntroductionTitle names the section that precedes the first heading.
const IntroductionTitle = "Introduction"

const (
	minHeadingRunes = 5   // exclusive
	maxHeadingRunes = 100 // exclusive
)

// Analyze partitions normalized text. It never fails; empty input yields
// an empty, non-nil Structure.
func Analyze(text string) document.Structure {
	lines := strings.Split(text, "\n")
	sections, headings := detectSections(lines)
	return document.Structure{
		Sections:  sections,
		Headings:  headings,
		Tables:    detectTables(lines),
		Lists:     detectLists(lines),
		Footnotes: []string{},
	}
}

// IsHeading reports whether a trimmed line looks like a heading.
func IsHeading(line string) bool {
	n := utf8.RuneCountInString(line)
	if n <= minHeadingRunes || n >= maxHeadingRunes {
		return false
	}
	if strings.HasSuffix(line, ".") {
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(first)
}

func detectSections(lines []string) ([]document.Section, []string) {
	sections := []document.Section{}
	headings := []string{}
	seen := make(map[string]bool)

	title := IntroductionTitle
	titled := false
	var content []string

	flush := func() {
		// A blank line just before a heading belongs to neither section.
		for len(content) > 0 && content[len(content)-1] == "" {
			content = content[:len(content)-1]
		}
		body := strings.Join(content, "\n")
		// The implicit introduction only exists if something preceded the first heading.
		if !titled && body == "" {
			return
		}
		sections = append(sections, document.Section{
			Title:     title,
			Content:   body,
			Level:     1,
			WordCount: textnorm.CountWords(body),
		})
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			// Keep paragraph breaks inside a section, at most one in a row.
			if len(content) > 0 && content[len(content)-1] != "" {
				content = append(content, "")
			}
			continue
		}
		if IsHeading(trimmed) {
			flush()
			title, titled, content = trimmed, true, nil
			if !seen[trimmed] {
				seen[trimmed] = true
				headings = append(headings, trimmed)
			}
			continue
		}
		content = append(content, trimmed)
	}
	flush()

	return sections, headings
}
