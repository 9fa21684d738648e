package structure

import (
	"regexp"
	"strings"

	"github.com/dgallion1/plainspeak/internal/document"
)

var (
	bulletItemRe   = regexp.MustCompile(`^[•\-*]\s+(.+)$`)
	numberedItemRe = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// detectLists groups consecutive list items of one kind. Blank lines do
// not end a list; any other non-item line does.
func detectLists(lines []string) []document.List {
	lists := []document.List{}
	cur := -1

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		kind, item, ok := listItem(trimmed)
		if !ok {
			cur = -1
			continue
		}
		if cur < 0 || lists[cur].Kind != kind {
			lists = append(lists, document.List{Kind: kind})
			cur = len(lists) - 1
		}
		lists[cur].Items = append(lists[cur].Items, item)
	}
	return lists
}

func listItem(line string) (document.ListKind, string, bool) {
	if m := bulletItemRe.FindStringSubmatch(line); m != nil {
		return document.ListUnordered, strings.TrimSpace(m[1]), true
	}
	if m := numberedItemRe.FindStringSubmatch(line); m != nil {
		return document.ListOrdered, strings.TrimSpace(m[1]), true
	}
	return "", "", false
}
