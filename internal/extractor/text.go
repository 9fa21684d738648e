package extractor

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextExtractor decodes plain text. UTF-8 is assumed; a byte-order mark
// selects UTF-16, and invalid UTF-8 is read as Windows-1252.
type TextExtractor struct{}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func (t *TextExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, method, warnings, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Method: method, Warnings: warnings}, nil
}

func decodeText(data []byte) (text, method string, warnings []string, err error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", "", nil, fmt.Errorf("decode utf-16: %w", err)
		}
		return string(out), "txt/utf-16", nil, nil
	}

	if utf8.Valid(data) {
		return string(data), "txt/utf-8", nil, nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", nil, fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), "txt/windows-1252", []string{"input was not valid UTF-8; decoded as Windows-1252"}, nil
}
