package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		mime     string
		want     Format
	}{
		{"report.pdf", "", FormatPDF},
		{"report.PDF", "", FormatPDF},
		{"letter.docx", "", FormatDOCX},
		{"old.doc", "", FormatDOC},
		{"notes.txt", "", FormatTXT},
		{"notes.rtf", "", FormatRTF},
		{"README.md", "", FormatMarkdown},
		{"page.htm", "", FormatHTML},
		{"data.csv", "", FormatCSV},
		{"upload.bin", "application/pdf", FormatPDF},
		{"upload", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", FormatDOCX},
		{"upload", "application/msword", FormatDOC},
		{"upload", "text/rtf", FormatRTF},
		{"upload", "text/plain; charset=utf-8", FormatTXT},
		{"report.pdf", "application/octet-stream", FormatPDF},
	}
	for _, tt := range tests {
		got, err := Detect(tt.filename, tt.mime)
		if assert.NoError(t, err, "Detect(%q, %q)", tt.filename, tt.mime) {
			assert.Equal(t, tt.want, got, "Detect(%q, %q)", tt.filename, tt.mime)
		}
	}
}

func TestDetectMIMEWinsOverExtension(t *testing.T) {
	got, err := Detect("actually-a-pdf.txt", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, got)
}

func TestDetectUnsupported(t *testing.T) {
	for _, name := range []string{"setup.exe", "archive.zip", "noext"} {
		_, err := Detect(name, "application/octet-stream")
		assert.ErrorIs(t, err, document.ErrUnsupportedFormat, name)
		var ufe *document.UnsupportedFormatError
		if assert.ErrorAs(t, err, &ufe, name) {
			assert.Equal(t, name, ufe.Filename)
		}
	}
	assert.False(t, IsSupported("setup.exe", ""))
	assert.True(t, IsSupported("setup.txt", ""))
}

func TestForFileReturnsStrategy(t *testing.T) {
	format, ex, err := ForFile("scan.pdf", "", Options{PDFFallback: true})
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)
	pdf, ok := ex.(*PDFExtractor)
	require.True(t, ok, "got %T", ex)
	assert.True(t, pdf.Fallback)

	for _, f := range SupportedFormats() {
		_, err := New(Format(f), Options{})
		assert.NoError(t, err, f)
	}
	_, err = New("xls", Options{})
	assert.Error(t, err)
}

func TestTextExtractorUTF8(t *testing.T) {
	res, err := (&TextExtractor{}).Extract(context.Background(), []byte("\xEF\xBB\xBFHello world"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", res.Text)
	assert.Equal(t, "txt/utf-8", res.Method)
	assert.Empty(t, res.Warnings)
}

func TestTextExtractorUTF16(t *testing.T) {
	data := []byte{0xFF, 0xFE, 'H', 0, 'i', 0, '!', 0}
	res, err := (&TextExtractor{}).Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Hi!", res.Text)
	assert.Equal(t, "txt/utf-16", res.Method)
}

func TestTextExtractorWindows1252(t *testing.T) {
	// 0xE9 is é and 0x93/0x94 are curly double quotes in Windows-1252.
	data := []byte("caf\xE9 \x93ok\x94")
	res, err := (&TextExtractor{}).Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "café “ok”", res.Text)
	assert.Equal(t, "txt/windows-1252", res.Method)
	assert.Len(t, res.Warnings, 1)
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, ex := range []Extractor{&TextExtractor{}, &RTFExtractor{}, &MarkdownExtractor{}, &HTMLExtractor{}, &CSVExtractor{}} {
		_, err := ex.Extract(ctx, []byte("hello"))
		assert.ErrorIs(t, err, context.Canceled, "%T", ex)
	}
}

func TestRTFExtractor(t *testing.T) {
	src := `{\rtf1\ansi\deff0{\fonttbl{\f0 Times New Roman;}}{\colortbl;\red0\green0\blue0;}` +
		`{\*\generator Riched20;}\f0\fs24 Hello \b World\b0 !\par ` +
		`Caf\'e9 costs \{5\}\tab done\line ` +
		`Smile \u9786?ok\par}`
	res, err := (&RTFExtractor{}).Extract(context.Background(), []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "rtf/strip", res.Method)
	assert.Equal(t, "Hello World!\nCafé costs {5}\tdone\nSmile ☺ok\n", res.Text)
	assert.NotContains(t, res.Text, "Times")
	assert.NotContains(t, res.Text, "Riched")
}

func TestReadControl(t *testing.T) {
	tests := []struct {
		in       string
		word     string
		param    int
		hasParam bool
		next     int
	}{
		{`par x`, "par", 0, false, 4},
		{`fs24 x`, "fs", 24, true, 5},
		{`u-3913?`, "u", -3913, true, 6},
		{`'e9`, "'", 0, false, 1},
		{`\`, `\`, 0, false, 1},
		{`b-x`, "b", 0, false, 1},
	}
	for _, tt := range tests {
		word, param, hasParam, next := readControl([]byte(tt.in), 0)
		assert.Equal(t, tt.word, word, tt.in)
		assert.Equal(t, tt.param, param, tt.in)
		assert.Equal(t, tt.hasParam, hasParam, tt.in)
		assert.Equal(t, tt.next, next, tt.in)
	}
}

func TestDOCExtractorRawFallback(t *testing.T) {
	data := append([]byte{0x00, 0x01, 0x02}, []byte("Plain legacy text here")...)
	data = append(data, 0x00, 0x00, 'a', 'b', 0x00)
	res, err := (&DOCExtractor{}).Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "doc/raw", res.Method)
	assert.Equal(t, "Plain legacy text here", res.Text)
	assert.Contains(t, res.Warnings, docBestEffortWarning)
}

func TestBestRunsPrefersUTF16(t *testing.T) {
	var data []byte
	for _, r := range "Wide character text" {
		data = append(data, byte(r), 0)
	}
	assert.Equal(t, "Wide character text", bestRuns(data))
}

func TestFIBTextRange(t *testing.T) {
	stream := make([]byte, 0x40)
	stream[0], stream[1] = 0xEC, 0xA5
	stream[0x18] = 0x20
	stream[0x1C] = 0x30
	got := fibTextRange(stream)
	assert.Len(t, got, 0x10)

	assert.Nil(t, fibTextRange([]byte("short")))
	stream[0x1C] = 0xFF
	assert.Nil(t, fibTextRange(stream))
}

func TestCSVExtractor(t *testing.T) {
	res, err := (&CSVExtractor{}).Extract(context.Background(), []byte("name,age\n\"Smith, J\",42\nLee,7\n"))
	require.NoError(t, err)
	assert.Equal(t, "name\tage\nSmith, J\t42\nLee\t7\n", res.Text)
	assert.Empty(t, res.Warnings)
}

func TestCSVExtractorWindows1252KeepsWarning(t *testing.T) {
	res, err := (&CSVExtractor{}).Extract(context.Background(), []byte("city,price\nCaf\xe9,3\n"))
	require.NoError(t, err)
	assert.Equal(t, "city\tprice\nCafé\t3\n", res.Text)
	assert.Equal(t, []string{"input was not valid UTF-8; decoded as Windows-1252"}, res.Warnings)
}

func TestMarkdownExtractor(t *testing.T) {
	src := "# Getting Started\n\nSome *intro* text.\n\n- first\n- second\n\n1. one\n2. two\n\n| A | B |\n|---|---|\n| 1 | 2 |\n"
	res, err := (&MarkdownExtractor{}).Extract(context.Background(), []byte(src))
	require.NoError(t, err)
	want := strings.Join([]string{
		"Getting Started",
		"Some intro text.",
		"- first",
		"- second",
		"1. one",
		"2. two",
		"",
		"A\tB",
		"1\t2",
	}, "\n")
	assert.Equal(t, want, res.Text)
}

func TestHTMLExtractor(t *testing.T) {
	src := `<html><head><title>My Page</title><style>p{}</style></head><body>
<h1>Main Heading</h1><p>First <b>bold</b> paragraph.</p>
<script>alert(1)</script>
<ol><li>alpha</li><li>beta</li></ol>
<ul><li>gamma</li></ul>
<table><tr><th>Name</th><th>Value</th></tr><tr><td>x</td><td>1</td></tr></table>
</body></html>`
	res, err := (&HTMLExtractor{}).Extract(context.Background(), []byte(src))
	require.NoError(t, err)
	assert.Contains(t, res.Text, "My Page")
	assert.Contains(t, res.Text, "\nMain Heading\nFirst bold paragraph.\n")
	assert.Contains(t, res.Text, "1. alpha\n2. beta\n- gamma")
	assert.Contains(t, res.Text, "Name\tValue\nx\t1")
	assert.NotContains(t, res.Text, "alert")
	assert.NotContains(t, res.Text, "p{}")
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Project Overview</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">The quick </w:t></w:r><w:r><w:t>brown fox.</w:t></w:r></w:p>
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Score</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>Ada</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>10</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
</w:body>
</w:document>`

func TestDOCXExtractor(t *testing.T) {
	res, err := (&DOCXExtractor{}).Extract(context.Background(), buildDOCX(t, sampleDocumentXML))
	require.NoError(t, err)
	assert.Equal(t, "docx/go-docx", res.Method)
	assert.Contains(t, res.Text, "Project Overview")
	assert.Contains(t, res.Text, "The quick brown fox.")
	assert.Contains(t, res.Text, "Name\tScore")
	assert.Contains(t, res.Text, "Ada\t10")
}

func TestExtractDOCXXML(t *testing.T) {
	res, err := extractDOCXXML(buildDOCX(t, sampleDocumentXML))
	require.NoError(t, err)
	assert.Equal(t, "docx/xml", res.Method)
	assert.Contains(t, res.Text, "Project Overview\n")
	assert.Contains(t, res.Text, "Name\tScore\n")
	assert.Contains(t, res.Text, "Ada\t10\n")
}

func TestDOCXExtractorNotZip(t *testing.T) {
	_, err := (&DOCXExtractor{}).Extract(context.Background(), []byte("not a zip archive"))
	assert.Error(t, err)
}

func TestPDFExtractorInvalid(t *testing.T) {
	for _, fallback := range []bool{false, true} {
		_, err := (&PDFExtractor{Fallback: fallback}).Extract(context.Background(), []byte("%PDF-1.4 garbage"))
		assert.Error(t, err, "fallback=%v", fallback)
	}
}

func TestContentStreamText(t *testing.T) {
	stream := []byte(`BT /F1 12 Tf 72 712 Td (Hello) Tj ( World) Tj T* [(Sec) -250 (ond)] TJ ET
% comment (ignored) Tj
BT <00410042> Tj (Esc\(aped\) \101) Tj ET`)
	got := contentStreamText(stream)
	assert.Equal(t, "Hello World\nSecond\nEsc(aped) A\n", got)
}

func TestReadLiteral(t *testing.T) {
	s, next := readLiteral([]byte(`a (nested) b\nc) tail`), 0)
	assert.Equal(t, "a (nested) b\nc", s)
	assert.Equal(t, 16, next)
}
