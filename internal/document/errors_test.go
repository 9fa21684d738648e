package document

import (
	"errors"
	"io"
	"testing"
)

func TestUnsupportedFormatError_Is(t *testing.T) {
	var err error = &UnsupportedFormatError{Filename: "setup.exe"}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatal("expected errors.Is to match ErrUnsupportedFormat")
	}
	if errors.Is(err, ErrExtractionFailed) {
		t.Error("did not expect ErrExtractionFailed to match")
	}
	if err.Error() != `unsupported format: "setup.exe"` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestExtractionError_UnwrapsCause(t *testing.T) {
	var err error = &ExtractionError{Format: "pdf", Err: io.ErrUnexpectedEOF}
	if !errors.Is(err, ErrExtractionFailed) {
		t.Error("expected ErrExtractionFailed to match")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected cause to be reachable")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Format != "pdf" {
		t.Errorf("expected errors.As to recover format, got %+v", ee)
	}
}

func TestComplexityRank(t *testing.T) {
	if !(ComplexityLow.Rank() < ComplexityMedium.Rank() && ComplexityMedium.Rank() < ComplexityHigh.Rank()) {
		t.Error("expected low < medium < high")
	}
	if Complexity("bogus").Rank() != 0 {
		t.Error("expected unknown complexity to rank 0")
	}
}
