package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/plainspeak/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// maxBatchFiles caps the number of files accepted by one batch request.
const maxBatchFiles = 20

type submitResult struct {
	Filename string             `json:"filename"`
	JobID    string             `json:"job_id,omitempty"`
	Status   pipeline.JobStatus `json:"status,omitempty"`
	PollURL  string             `json:"poll_url,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func pollURL(id string) string {
	return fmt.Sprintf("/api/jobs/%s", id)
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		jsonError(w, "job runner unavailable", http.StatusServiceUnavailable)
		return
	}
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

	job, err := s.runner.Submit(f)
	if err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			w.Header().Set("Retry-After", "5")
		}
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, submitResult{
		Filename: job.Filename,
		JobID:    job.ID,
		Status:   job.Snapshot().Status,
		PollURL:  pollURL(job.ID),
	})
}

func (s *Server) handleSubmitBatch(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		jsonError(w, "job runner unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := s.parseUpload(w, r, maxBatchFiles); err != nil {
		uploadError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "files are required", http.StatusBadRequest)
		return
	}
	if len(headers) > maxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files: %d (max %d)", len(headers), maxBatchFiles), http.StatusBadRequest)
		return
	}

	results := make([]submitResult, 0, len(headers))
	accepted := 0
	for _, h := range headers {
		res := submitResult{Filename: sanitizeFilename(h.Filename)}
		f, err := s.readPart(h)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		job, err := s.runner.Submit(f)
		if err != nil {
			res.Error = err.Error()
			if job != nil {
				res.JobID = job.ID
				res.Status = pipeline.StatusFailed
			}
			results = append(results, res)
			continue
		}
		res.JobID = job.ID
		res.Status = pipeline.StatusQueued
		res.PollURL = pollURL(job.ID)
		results = append(results, res)
		accepted++
	}

	code := http.StatusAccepted
	if accepted == 0 {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"accepted": accepted,
		"jobs":     results,
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		jsonError(w, "job runner unavailable", http.StatusServiceUnavailable)
		return
	}
	jobID := chi.URLParam(r, "jobID")
	job := s.runner.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
