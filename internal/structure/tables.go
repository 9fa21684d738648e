package structure

import (
	"regexp"
	"strings"

	"github.com/dgallion1/plainspeak/internal/document"
)

// tableLookahead is how many lines after a header row are scanned for rows.
const tableLookahead = 9

var captionRe = regexp.MustCompile(`^Table\s+\d+`)

func detectTables(lines []string) []document.Table {
	tables := []document.Table{}

	for i := 0; i < len(lines); i++ {
		delim, headers := splitRow(lines[i])
		if len(headers) < 2 {
			continue
		}

		var rows [][]string
		last := i
		for j := i + 1; j <= i+tableLookahead && j < len(lines); j++ {
			d, fields := splitRow(lines[j])
			if d == delim && len(fields) == len(headers) {
				rows = append(rows, fields)
				last = j
			}
		}
		if len(rows) == 0 {
			continue
		}

		tables = append(tables, document.Table{
			Headers: headers,
			Rows:    rows,
			Caption: caption(lines, i),
		})
		i = last
	}
	return tables
}

// splitRow returns the delimiter of a candidate row and its non-empty
// fields. A pipe wins over a tab when both are present.
func splitRow(line string) (string, []string) {
	var delim string
	switch {
	case strings.Contains(line, "|"):
		delim = "|"
	case strings.Contains(line, "\t"):
		delim = "\t"
	default:
		return "", nil
	}
	var fields []string
	for _, f := range strings.Split(line, delim) {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return delim, fields
}

func caption(lines []string, header int) string {
	for k := header - 1; k >= 0; k-- {
		prev := strings.TrimSpace(lines[k])
		if prev == "" {
			continue
		}
		if captionRe.MatchString(prev) {
			return prev
		}
		return ""
	}
	return ""
}
