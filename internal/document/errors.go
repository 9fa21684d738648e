package document

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat means neither MIME type nor extension matched a strategy.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtractionFailed means a format-specific decoder rejected the payload.
	ErrExtractionFailed = errors.New("extraction failed")
)

// UnsupportedFormatError names the file that could not be dispatched.
type UnsupportedFormatError struct {
	Filename string
	MIMEType string
}

func (e *UnsupportedFormatError) Error() string {
	if e.MIMEType != "" {
		return fmt.Sprintf("unsupported format: %q (mime %q)", e.Filename, e.MIMEType)
	}
	return fmt.Sprintf("unsupported format: %q", e.Filename)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ExtractionError wraps the decoder failure for one format.
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}
