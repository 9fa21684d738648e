// Package extractor turns raw document bytes into plain text. One strategy
// exists per format; ForFile picks it from the declared MIME type first and
// the file extension second.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/plainspeak/internal/document"
)

// Format names a supported document format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatDOC      Format = "doc"
	FormatTXT      Format = "txt"
	FormatRTF      Format = "rtf"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
)

// Result is the text of one document plus how it was obtained.
type Result struct {
	Text      string
	PageCount int      // 0 when the format has no pages
	Method    string   // strategy identifier, e.g. "pdf/ledongthuc"
	Warnings  []string // non-fatal conversion notes
}

// Extractor converts raw bytes of one format into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Result, error)
}

// Options tune individual strategies.
type Options struct {
	// PDFFallback enables the pdfcpu content-stream reader when the primary
	// PDF reader cannot open a file.
	PDFFallback bool
}

// mimeRules are checked in order against the lowercased MIME type.
var mimeRules = []struct {
	substr string
	format Format
}{
	{"pdf", FormatPDF},
	{"wordprocessingml", FormatDOCX},
	{"msword", FormatDOC},
	{"rtf", FormatRTF},
	{"markdown", FormatMarkdown},
	{"html", FormatHTML},
	{"csv", FormatCSV},
	{"text/plain", FormatTXT},
}

var extensions = map[string]Format{
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".doc":      FormatDOC,
	".txt":      FormatTXT,
	".text":     FormatTXT,
	".rtf":      FormatRTF,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".csv":      FormatCSV,
}

// Detect resolves the format of a file.
func Detect(filename, mimeType string) (Format, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if mt != "" {
		for _, rule := range mimeRules {
			if strings.Contains(mt, rule.substr) {
				return rule.format, nil
			}
		}
	}
	if f, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return f, nil
	}
	return "", &document.UnsupportedFormatError{Filename: filename, MIMEType: mimeType}
}

// New returns the strategy for a format.
func New(format Format, opts Options) (Extractor, error) {
	switch format {
	case FormatPDF:
		return &PDFExtractor{Fallback: opts.PDFFallback}, nil
	case FormatDOCX:
		return &DOCXExtractor{}, nil
	case FormatDOC:
		return &DOCExtractor{}, nil
	case FormatTXT:
		return &TextExtractor{}, nil
	case FormatRTF:
		return &RTFExtractor{}, nil
	case FormatMarkdown:
		return &MarkdownExtractor{}, nil
	case FormatHTML:
		return &HTMLExtractor{}, nil
	case FormatCSV:
		return &CSVExtractor{}, nil
	default:
		return nil, fmt.Errorf("no extractor for format %q", format)
	}
}

// ForFile detects the format of a file and returns its strategy.
func ForFile(filename, mimeType string, opts Options) (Format, Extractor, error) {
	format, err := Detect(filename, mimeType)
	if err != nil {
		return "", nil, err
	}
	ex, err := New(format, opts)
	if err != nil {
		return "", nil, err
	}
	return format, ex, nil
}

// IsSupported reports whether a file would be dispatched to a strategy.
func IsSupported(filename, mimeType string) bool {
	_, err := Detect(filename, mimeType)
	return err == nil
}

// SupportedFormats lists format names in a stable order.
func SupportedFormats() []string {
	return []string{
		string(FormatPDF), string(FormatDOCX), string(FormatDOC), string(FormatTXT),
		string(FormatRTF), string(FormatMarkdown), string(FormatHTML), string(FormatCSV),
	}
}

// recovered converts a panic from a third-party decoder into an error.
func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("decoder panic: %w", err)
	}
	return fmt.Errorf("decoder panic: %v", r)
}
