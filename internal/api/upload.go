package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dgallion1/plainspeak/internal/document"
)

// formOverhead is the slack allowed on top of the upload limit for
// multipart boundaries and other form fields.
const formOverhead = 1 << 20

var errNoFile = errors.New("file is required")

// parseUpload bounds the request body and parses the multipart form.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request, files int) error {
	if files < 1 {
		files = 1
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*int64(files)+formOverhead)
	return r.ParseMultipartForm(32 << 20)
}

// readPart reads one uploaded file, enforcing the per-file size limit.
func (s *Server) readPart(header *multipart.FileHeader) (document.File, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return document.File{}, &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes}
	}
	f, err := header.Open()
	if err != nil {
		return document.File{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return document.File{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return document.File{}, &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes}
	}
	return document.File{
		Name:     sanitizeFilename(header.Filename),
		MIMEType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// formFile reads the single file stored under field.
func (s *Server) formFile(r *http.Request, field string) (document.File, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return document.File{}, errNoFile
	}
	return s.readPart(r.MultipartForm.File[field][0])
}

// uploadError writes the response for a failed upload read.
func uploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
	case errors.Is(err, errNoFile):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
	}
}
