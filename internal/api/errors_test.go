package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported", &document.UnsupportedFormatError{Filename: "a.exe"}, http.StatusUnsupportedMediaType},
		{"extraction", &document.ExtractionError{Format: "pdf", Err: errors.New("bad xref")}, http.StatusUnprocessableEntity},
		{"timeout", fmt.Errorf("process a.pdf: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"canceled", fmt.Errorf("process a.pdf: %w", context.Canceled), 499},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestWriteProcessError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	writeProcessError(w, errors.New("nil pointer in worker 3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\notes.docx`, "notes.docx"},
		{"a..b.txt", "a_b.txt"},
		{"", "unnamed"},
		{"/", "unnamed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
