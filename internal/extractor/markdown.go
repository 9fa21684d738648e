package extractor

import (
	"context"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor renders Markdown to plain lines: headings stand alone,
// list items keep a "- " or "N. " marker and table rows are tab-separated.
type MarkdownExtractor struct{}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

func (m *MarkdownExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := markdown.Parser().Parse(text.NewReader(data))
	w := &mdWriter{src: data}
	w.blocks(doc)
	return &Result{Text: strings.Join(w.lines, "\n"), Method: "md/goldmark"}, nil
}

type mdWriter struct {
	src   []byte
	lines []string
}

func (w *mdWriter) blank() {
	if n := len(w.lines); n > 0 && w.lines[n-1] != "" {
		w.lines = append(w.lines, "")
	}
}

func (w *mdWriter) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
}

func (w *mdWriter) block(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		w.blank()
		w.lines = append(w.lines, w.inline(node))
	case *ast.Paragraph, *ast.TextBlock:
		w.lines = append(w.lines, strings.Split(w.inline(node), "\n")...)
	case *ast.List:
		w.list(node)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.lines = append(w.lines, strings.TrimRight(string(seg.Value(w.src)), "\r\n"))
		}
	case *east.Table:
		w.blank()
		for row := node.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, w.inline(cell))
			}
			w.lines = append(w.lines, strings.Join(cells, "\t"))
		}
	case *ast.ThematicBreak, *ast.HTMLBlock:
	default:
		w.blocks(n)
	}
}

func (w *mdWriter) list(l *ast.List) {
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if first {
				if _, nested := c.(*ast.List); !nested {
					w.lines = append(w.lines, marker+w.inline(c))
					first = false
					continue
				}
			}
			w.block(c)
		}
	}
}

// inline flattens the inline children of a node into text, keeping soft
// and hard line breaks.
func (w *mdWriter) inline(n ast.Node) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(w.src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte('\n')
				}
			case *ast.String:
				b.Write(t.Value)
			case *ast.AutoLink:
				b.Write(t.Label(w.src))
			case *ast.RawHTML:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
