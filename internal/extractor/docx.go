package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXExtractor handles .docx files. Paragraphs become lines, table rows
// become tab-separated lines, and heading paragraphs are set off by a
// blank line so the structure analyzer can find them.
type DOCXExtractor struct{}

func (d *DOCXExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	res, err := extractDOCX(data)
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	// go-docx is strict about some producers' markup; walking the raw XML
	// still recovers the text.
	fb, fbErr := extractDOCXXML(data)
	if fbErr != nil {
		return nil, fmt.Errorf("parse docx: %w", errors.Join(err, fbErr))
	}
	fb.Warnings = append(fb.Warnings, "docx parser failed, used raw xml: "+err.Error())
	return fb, nil
}

func extractDOCX(data []byte) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, recovered(r)
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var lines []string
	skipped := 0
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(it)
			if text == "" {
				continue
			}
			if docxHeadingLevel(it) > 0 && len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, text)
		case *docx.Table:
			lines = append(lines, docxTableLines(it)...)
		default:
			skipped++
		}
	}

	res = &Result{
		Text:   strings.Join(lines, "\n"),
		Method: "docx/go-docx",
	}
	if skipped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d non-text body elements skipped", skipped))
	}
	return res, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '9' {
		return int(rest[0] - '0')
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			docxRunText(&buf, c)
		case *docx.Hyperlink:
			docxRunText(&buf, &c.Run)
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxRunText(buf *strings.Builder, run *docx.Run) {
	for _, rc := range run.Children {
		switch t := rc.(type) {
		case *docx.Text:
			buf.WriteString(t.Text)
		case *docx.Tab:
			buf.WriteByte(' ')
		case *docx.BarterRabbet:
			buf.WriteByte(' ')
		}
	}
}

func docxTableLines(tbl *docx.Table) []string {
	var lines []string
	for _, row := range tbl.TableRows {
		cells := make([]string, 0, len(row.TableCells))
		for _, cell := range row.TableCells {
			parts := make([]string, 0, len(cell.Paragraphs))
			for _, p := range cell.Paragraphs {
				if t := docxParagraphText(p); t != "" {
					parts = append(parts, t)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		line := strings.Join(cells, "\t")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// extractDOCXXML streams word/document.xml and keeps only text runs,
// paragraph ends and cell boundaries.
func extractDOCXXML(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return nil, errors.New("word/document.xml not found")
	}
	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	var buf strings.Builder
	dec := xml.NewDecoder(rc)
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "br":
				buf.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteByte('\n')
			case "tc":
				buf.WriteByte('\t')
			case "tr":
				buf.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}

	return &Result{
		Text:   tableRowCleanup(buf.String()),
		Method: "docx/xml",
	}, nil
}

// tableRowCleanup folds the paragraph breaks that sit inside table cells so
// each row ends up on one tab-separated line.
func tableRowCleanup(s string) string {
	s = strings.ReplaceAll(s, "\n\t", "\t")
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		out = append(out, strings.TrimRight(l, "\t "))
	}
	return strings.Join(out, "\n")
}
