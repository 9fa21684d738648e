package extractor

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

// minRunLength is the shortest printable run kept from binary .doc data.
const minRunLength = 4

const docBestEffortWarning = "legacy .doc extraction is best-effort; formatting and some text may be lost"

// DOCExtractor recovers text from legacy Word 97-2003 files. It opens the
// compound file to locate the WordDocument stream and scans it for
// printable runs. Without a readable container it scans the raw bytes.
type DOCExtractor struct{}

func (d *DOCExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	stream, err := wordDocumentStream(data)
	method := "doc/ole"
	var warnings []string
	if err != nil {
		stream = data
		method = "doc/raw"
		warnings = append(warnings, "not a compound document, scanned raw bytes: "+err.Error())
	} else if text := fibTextRange(stream); text != nil {
		stream = text
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := bestRuns(stream)
	warnings = append(warnings, docBestEffortWarning)
	return &Result{Text: text, Method: method, Warnings: warnings}, nil
}

func wordDocumentStream(data []byte) (stream []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			stream, err = nil, recovered(r)
		}
	}()

	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}
		buf, err := io.ReadAll(entry)
		if err != nil {
			return nil, fmt.Errorf("read WordDocument: %w", err)
		}
		return buf, nil
	}
	return nil, errors.New("no WordDocument stream")
}

// fibTextRange narrows the stream to the document text when the File
// Information Block's fcMin/fcMac offsets look sane.
func fibTextRange(stream []byte) []byte {
	if len(stream) < 0x20 || binary.LittleEndian.Uint16(stream) != 0xA5EC {
		return nil
	}
	fcMin := int(binary.LittleEndian.Uint32(stream[0x18:]))
	fcMac := int(binary.LittleEndian.Uint32(stream[0x1C:]))
	if fcMin <= 0 || fcMac <= fcMin || fcMac > len(stream) {
		return nil
	}
	return stream[fcMin:fcMac]
}

// bestRuns scans data both as single-byte Windows-1252 text and as
// UTF-16LE and returns whichever yields more letters.
func bestRuns(data []byte) string {
	narrow := narrowRuns(data)
	wide := wideRuns(data)
	if letterCount(wide) > letterCount(narrow) {
		return wide
	}
	return narrow
}

func narrowRuns(data []byte) string {
	var out, run strings.Builder
	n := 0
	flush := func() {
		if n >= minRunLength {
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			out.WriteString(strings.TrimSpace(run.String()))
		}
		run.Reset()
		n = 0
	}
	for _, b := range data {
		if b == '\r' || b == '\n' {
			flush()
			continue
		}
		r := charmap.Windows1252.DecodeByte(b)
		if !printableRune(r) {
			flush()
			continue
		}
		run.WriteRune(r)
		n++
	}
	flush()
	return out.String()
}

func wideRuns(data []byte) string {
	var out strings.Builder
	var run []uint16
	flush := func() {
		if len(run) >= minRunLength {
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			out.WriteString(strings.TrimSpace(string(utf16.Decode(run))))
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(data); i += 2 {
		u := binary.LittleEndian.Uint16(data[i:])
		if u == '\r' || u == '\n' {
			flush()
			continue
		}
		if utf16.IsSurrogate(rune(u)) || !printableRune(rune(u)) {
			flush()
			continue
		}
		run = append(run, u)
	}
	flush()
	return out.String()
}

func printableRune(r rune) bool {
	if r == '\t' || r == ' ' {
		return true
	}
	return unicode.IsPrint(r) && r != unicode.ReplacementChar
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
