package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor flattens an HTML page into lines. Block elements start new
// lines, list items get markers and table rows become tab-separated.
type HTMLExtractor struct{}

func (h *HTMLExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	w := &htmlWriter{}
	if title := findTitle(doc); title != "" {
		w.line(title)
		w.lines = append(w.lines, "")
	}
	if body := findElement(doc, "body"); body != nil {
		w.walk(body)
	} else {
		w.walk(doc)
	}
	w.flush()
	return &Result{Text: strings.Join(w.lines, "\n"), Method: "html/x-net"}, nil
}

type htmlWriter struct {
	lines []string
	loose strings.Builder
}

func (w *htmlWriter) line(s string) {
	if s = collapseSpace(s); s != "" {
		w.lines = append(w.lines, s)
	}
}

func (w *htmlWriter) flush() {
	w.line(w.loose.String())
	w.loose.Reset()
}

func (w *htmlWriter) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			w.loose.WriteString(c.Data)
			continue
		case html.ElementNode:
		default:
			continue
		}

		switch c.Data {
		case "script", "style", "noscript", "template", "head":
		case "h1", "h2", "h3", "h4", "h5", "h6":
			w.flush()
			w.lines = append(w.lines, "")
			w.line(textContent(c))
		case "p", "blockquote", "pre", "caption", "dt", "dd":
			w.flush()
			w.line(textContent(c))
		case "br":
			w.flush()
		case "ul", "ol":
			w.flush()
			w.list(c)
		case "tr":
			w.flush()
			w.row(c)
		case "div", "section", "article", "main", "header", "footer", "nav", "aside", "table", "form":
			w.flush()
			w.walk(c)
			w.flush()
		default:
			w.walk(c)
		}
	}
}

func (w *htmlWriter) list(l *html.Node) {
	ordered := l.Data == "ol"
	num := 1
	if ordered {
		for _, a := range l.Attr {
			if a.Key == "start" {
				if v, err := strconv.Atoi(a.Val); err == nil {
					num = v
				}
			}
		}
	}
	for li := l.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		marker := "- "
		if ordered {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		w.line(marker + textContent(li))
	}
}

func (w *htmlWriter) row(tr *html.Node) {
	var cells []string
	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
			cells = append(cells, collapseSpace(textContent(td)))
		}
	}
	if len(cells) > 0 {
		w.lines = append(w.lines, strings.Join(cells, "\t"))
	}
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(doc *html.Node) string {
	if t := findElement(doc, "title"); t != nil {
		return collapseSpace(textContent(t))
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
