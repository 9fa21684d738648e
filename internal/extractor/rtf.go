package extractor

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RTFExtractor strips RTF control words and keeps the visible text.
type RTFExtractor struct{}

func (r *RTFExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Text: stripRTF(data), Method: "rtf/strip"}, nil
}

// skipDestinations hold metadata rather than body text.
var skipDestinations = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"object":     true,
	"header":     true,
	"footer":     true,
	"listtable":  true,
	"themedata":  true,
	"datastore":  true,
	"xmlnstbl":   true,
	"rsidtbl":    true,
	"generator":  true,
}

type rtfGroup struct {
	skip   bool
	ucSkip int // fallback bytes that follow a \uN escape
}

func stripRTF(data []byte) string {
	var out strings.Builder
	stack := []rtfGroup{{ucSkip: 1}}
	pendingSkip := 0

	top := func() *rtfGroup { return &stack[len(stack)-1] }
	emit := func(s string) {
		if !top().skip {
			out.WriteString(s)
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch c {
		case '{':
			stack = append(stack, *top())
			pendingSkip = 0
			i++
		case '}':
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			pendingSkip = 0
			i++
		case '\r', '\n':
			i++
		case '\\':
			word, param, hasParam, next := readControl(data, i+1)
			i = next
			if pendingSkip > 0 && word != "'" {
				pendingSkip = 0
			}
			switch word {
			case "":
			case "*":
				top().skip = true
			case "'":
				if i+2 <= len(data) {
					if b, err := strconv.ParseUint(string(data[i:i+2]), 16, 8); err == nil {
						if pendingSkip > 0 {
							pendingSkip--
						} else {
							emit(string(charmap.Windows1252.DecodeByte(byte(b))))
						}
					}
					i += 2
				}
			case "\\", "{", "}":
				emit(word)
			case "~":
				emit(" ")
			case "-", "_":
				emit("-")
			case "par", "line", "sect", "page", "row":
				emit("\n")
			case "tab", "cell":
				emit("\t")
			case "emdash", "endash":
				emit("-")
			case "bullet":
				emit("•")
			case "lquote", "rquote":
				emit("'")
			case "ldblquote", "rdblquote":
				emit("\"")
			case "uc":
				if hasParam {
					top().ucSkip = param
				}
			case "u":
				if hasParam {
					if param < 0 {
						param += 65536
					}
					if utf8.ValidRune(rune(param)) {
						emit(string(rune(param)))
					}
					pendingSkip = top().ucSkip
				}
			default:
				if skipDestinations[word] {
					top().skip = true
				}
			}
		default:
			if pendingSkip > 0 {
				pendingSkip--
			} else {
				emit(string(charmap.Windows1252.DecodeByte(c)))
			}
			i++
		}
	}
	return out.String()
}

// readControl parses a control word or symbol starting just after the
// backslash. It returns the word, its numeric parameter if present and the
// index of the next unread byte (the delimiting space is consumed).
func readControl(data []byte, i int) (word string, param int, hasParam bool, next int) {
	if i >= len(data) {
		return "", 0, false, i
	}
	c := data[i]
	if !isASCIILetter(c) {
		if c == '\r' || c == '\n' {
			return "par", 0, false, i + 1
		}
		return string(c), 0, false, i + 1
	}

	start := i
	for i < len(data) && isASCIILetter(data[i]) {
		i++
	}
	word = string(data[start:i])

	numStart := i
	if i < len(data) && data[i] == '-' {
		i++
	}
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	if i > numStart && !(i == numStart+1 && data[numStart] == '-') {
		if v, err := strconv.Atoi(string(data[numStart:i])); err == nil {
			param, hasParam = v, true
		}
	} else {
		i = numStart
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}
	return word, param, hasParam, i
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
