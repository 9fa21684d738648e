package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFExtractor reads PDFs page by page with ledongthuc/pdf and falls back
// to pdfcpu when the file cannot be opened.
type PDFExtractor struct {
	Fallback bool
}

func (p *PDFExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	res, err := extractPages(ctx, data)
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if !p.Fallback {
		return nil, err
	}

	fb, fbErr := extractPDFCPU(ctx, data)
	if fbErr != nil {
		return nil, fmt.Errorf("%w (fallback: %v)", err, fbErr)
	}
	fb.Warnings = append(fb.Warnings, "primary pdf reader failed: "+err.Error())
	return fb, nil
}

// pageMarker separates pages so structural analysis can see page breaks.
func pageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

func writePage(buf *strings.Builder, n int, text string) {
	if buf.Len() > 0 {
		buf.WriteString("\n\n")
	}
	buf.WriteString(pageMarker(n))
	buf.WriteByte('\n')
	buf.WriteString(strings.TrimSpace(text))
}

func extractPages(ctx context.Context, data []byte) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, recovered(r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	var warnings []string
	numPages := reader.NumPage()
	skipped := 0
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(reader, i)
		if err != nil {
			skipped++
			warnings = append(warnings, fmt.Sprintf("page %d skipped: %v", i, err))
			continue
		}
		writePage(&buf, i, text)
	}
	if numPages > 0 && skipped == numPages {
		return nil, fmt.Errorf("no readable pages (%d skipped)", skipped)
	}

	method := "pdf/ledongthuc"
	if skipped > 0 {
		method += " (partial)"
	}
	return &Result{
		Text:      buf.String(),
		PageCount: numPages,
		Method:    method,
		Warnings:  warnings,
	}, nil
}

// pageText isolates a single page so a corrupt one cannot abort the document.
func pageText(reader *pdflib.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", recovered(r)
		}
	}()
	page := reader.Page(n)
	if page.V.IsNull() {
		return "", errors.New("missing page object")
	}
	return page.GetPlainText(nil)
}

var disablePDFCPUConfig sync.Once

func extractPDFCPU(ctx context.Context, data []byte) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, recovered(r)
		}
	}()
	// pdfcpu otherwise creates a config directory under the user's home.
	disablePDFCPUConfig.Do(api.DisableConfigDir)

	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	var buf strings.Builder
	var warnings []string
	skipped := 0
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil || r == nil {
			skipped++
			warnings = append(warnings, fmt.Sprintf("page %d skipped: no content stream", pageNr))
			continue
		}
		stream, err := io.ReadAll(r)
		if err != nil {
			skipped++
			warnings = append(warnings, fmt.Sprintf("page %d skipped: %v", pageNr, err))
			continue
		}
		writePage(&buf, pageNr, contentStreamText(stream))
	}

	method := "pdf/pdfcpu"
	if skipped > 0 {
		method += " (partial)"
	}
	return &Result{
		Text:      buf.String(),
		PageCount: pctx.PageCount,
		Method:    method,
		Warnings:  warnings,
	}, nil
}

// contentStreamText pulls literal strings shown by text operators out of a
// decoded page content stream. Hex strings are skipped since they usually
// hold glyph ids that need the font's CMap.
func contentStreamText(data []byte) string {
	var out strings.Builder
	var pending []string

	flush := func() {
		for _, s := range pending {
			out.WriteString(s)
		}
		pending = pending[:0]
	}
	newline := func() {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '(':
			s, next := readLiteral(data, i+1)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] != '<':
			end := bytes.IndexByte(data[i:], '>')
			if end < 0 {
				i = len(data)
			} else {
				i += end + 1
			}
		case c == '%':
			end := bytes.IndexAny(data[i:], "\r\n")
			if end < 0 {
				i = len(data)
			} else {
				i += end
			}
		case isPDFRegular(c):
			start := i
			for i < len(data) && isPDFRegular(data[i]) {
				i++
			}
			switch string(data[start:i]) {
			case "Tj", "TJ":
				flush()
			case "'", "\"":
				newline()
				flush()
			case "Td", "TD":
				if out.Len() > 0 {
					out.WriteByte(' ')
				}
			case "T*", "ET":
				newline()
			}
		default:
			i++
		}
	}
	return out.String()
}

func isPDFRegular(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ',
		'(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}

// readLiteral decodes a PDF literal string starting after its opening
// parenthesis and returns the text and the index after the closing one.
func readLiteral(data []byte, i int) (string, int) {
	var sb strings.Builder
	depth := 1
	for i < len(data) {
		c := data[i]
		switch c {
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		case '\\':
			i++
			if i >= len(data) {
				return sb.String(), i
			}
			switch e := data[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					val := 0
					for k := 0; k < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7'; k++ {
						val = val*8 + int(data[i]-'0')
						i++
					}
					sb.WriteByte(byte(val))
					continue
				}
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(c)
		}
		i++
	}
	return sb.String(), i
}
