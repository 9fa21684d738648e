package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/google/uuid"
)

// JobStatus represents the state of an async processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions will happen.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one document submitted to the Runner.
type Job struct {
	mu sync.Mutex

	ID          string
	Filename    string
	MIMEType    string
	ContentHash string
	Status      JobStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// ErrorKind classifies a failure for API status mapping.
	ErrorKind string
	Error     string

	file   document.File
	result *document.ProcessedDocument
}

// Error kinds recorded on failed jobs.
const (
	ErrorKindUnsupported = "unsupported_format"
	ErrorKindExtraction  = "extraction_failed"
	ErrorKindTimeout     = "timeout"
	ErrorKindQueueFull   = "queue_full"
	ErrorKindInternal    = "internal"
)

// NewJob wraps a file in a queued job with a fresh id.
func NewJob(f document.File) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Filename:    f.Name,
		MIMEType:    f.MIMEType,
		ContentHash: ContentHashHex(f.Data),
		Status:      StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
		file:        f,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Complete stores the result and releases the uploaded bytes.
func (j *Job) Complete(doc *document.ProcessedDocument) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = doc
	j.file.Data = nil
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
}

// Fail records the failure and releases the uploaded bytes.
func (j *Job) Fail(kind, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ErrorKind = kind
	j.Error = msg
	j.file.Data = nil
	j.Status = StatusFailed
	j.UpdatedAt = time.Now()
}

// File returns the submitted file.
func (j *Job) File() document.File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string                      `json:"job_id"`
	Filename    string                      `json:"filename"`
	ContentHash string                      `json:"content_hash"`
	Status      JobStatus                   `json:"status"`
	ErrorKind   string                      `json:"error_kind,omitempty"`
	Error       string                      `json:"error,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Result      *document.ProcessedDocument `json:"result,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Status:      j.Status,
		ErrorKind:   j.ErrorKind,
		Error:       j.Error,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		Result:      j.result,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs that have not changed within the TTL and returns
// how many were dropped.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
