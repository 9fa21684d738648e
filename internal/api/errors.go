package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/dgallion1/plainspeak/internal/extractor"
)

// statusForError maps a processing error to an HTTP status code.
func statusForError(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, document.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, document.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// Client went away; nginx's 499 is the usual code.
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeProcessError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	msg := err.Error()
	switch code {
	case http.StatusUnsupportedMediaType:
		msg = fmt.Sprintf("%s; supported formats: %s", msg, strings.Join(extractor.SupportedFormats(), ", "))
	case http.StatusInternalServerError:
		msg = "internal error"
	}
	jsonError(w, msg, code)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func sanitizeFilename(name string) string {
	// Multipart names from Windows clients may carry backslash paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
