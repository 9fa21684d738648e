package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/plainspeak/internal/chunker"
	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/dgallion1/plainspeak/internal/extractor"
)

type processResponse struct {
	*document.ProcessedDocument
	Chunks []document.Chunk `json:"chunks,omitempty"`
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formats":          extractor.SupportedFormats(),
		"max_upload_bytes": s.cfg.MaxUploadBytes,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := s.parseUpload(w, r, 1); err != nil {
		uploadError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, err := s.formFile(r, "file")
	if err != nil {
		uploadError(w, err)
		return
	}

	doc, err := s.proc.Process(r.Context(), f)
	if err != nil {
		s.log.Warn("process failed", "filename", f.Name, "status", statusForError(err), "error", err)
		writeProcessError(w, err)
		return
	}

	resp := processResponse{ProcessedDocument: doc}
	if r.FormValue("chunks") == "true" {
		resp.Chunks = chunker.ChunkSections(doc.Structure.Sections, s.chunkConfig(r))
	}
	writeJSON(w, http.StatusOK, resp)
}

// chunkConfig applies optional chunk_size and overlap overrides to the
// configured defaults.
func (s *Server) chunkConfig(r *http.Request) chunker.Config {
	cfg := chunker.DefaultConfig()
	if s.cfg.DefaultChunkSize > 0 {
		cfg.ChunkSize = s.cfg.DefaultChunkSize
	}
	if s.cfg.DefaultChunkOverlap >= 0 {
		cfg.ChunkOverlap = s.cfg.DefaultChunkOverlap
	}
	if v := r.FormValue("chunk_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkSize = n
		}
	}
	if v := r.FormValue("overlap"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ChunkOverlap = n
		}
	}
	return cfg
}
