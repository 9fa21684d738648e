package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVExtractor emits each record as one tab-separated line so the first
// row reads as a table header.
type CSVExtractor struct{}

func (c *CSVExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, _, warnings, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var buf bytes.Buffer
	for _, rec := range records {
		for i, field := range rec {
			rec[i] = strings.Join(strings.Fields(field), " ")
		}
		buf.WriteString(strings.Join(rec, "\t"))
		buf.WriteByte('\n')
	}
	return &Result{Text: buf.String(), Method: "csv/encoding-csv", Warnings: warnings}, nil
}
