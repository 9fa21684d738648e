package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/plainspeak/internal/document"
)

var (
	// ErrQueueFull is returned by Submit when every queue slot is taken.
	ErrQueueFull = errors.New("job queue is full")
	// ErrRunnerStopped is returned by Submit after Stop.
	ErrRunnerStopped = errors.New("job runner is stopped")
)

// JobObserver receives job lifecycle events.
type JobObserver interface {
	ObserveJob(status string)
	SetQueueDepth(n int)
}

// RunnerConfig sizes the worker pool and job retention.
type RunnerConfig struct {
	Workers         int
	QueueSize       int
	JobTTL          time.Duration
	CleanupInterval time.Duration
}

// Runner processes submitted documents in the background with a fixed
// pool of workers reading from a bounded queue.
type Runner struct {
	proc     Processor
	jobs     *JobStore
	queue    chan *Job
	log      *slog.Logger
	cfg      RunnerConfig
	observer JobObserver

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	// mu orders Submit against Stop so nothing is queued after the drain.
	mu      sync.Mutex
	stopped bool
}

func NewRunner(proc Processor, cfg RunnerConfig, log *slog.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		proc:  proc,
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.QueueSize),
		log:   log,
		cfg:   cfg,
	}
}

// WithObserver sets the job metrics sink. Call before Start.
func (r *Runner) WithObserver(obs JobObserver) *Runner {
	r.observer = obs
	return r
}

// Start launches worker goroutines and the job store cleanup loop.
func (r *Runner) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := range r.cfg.Workers {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			log := r.log.With("worker", i)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-r.queue:
					if !ok {
						return
					}
					r.reportDepth()
					r.run(workerCtx, job, log)
				}
			}
		}()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := r.jobs.Cleanup(); n > 0 {
					r.log.Debug("expired jobs removed", "count", n)
				}
			}
		}
	}()
}

// Stop cancels in-flight work and waits for the workers to exit. Jobs still
// queued are marked failed.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		r.mu.Unlock()

		if r.cancel != nil {
			r.cancel()
		}
		r.wg.Wait()
		for {
			select {
			case job := <-r.queue:
				job.Fail(ErrorKindInternal, "runner stopped before the job started")
				r.finished(job)
			default:
				return
			}
		}
	})
}

// Submit registers f as a new job and queues it. When the queue is full or
// the runner is stopped the job is still registered, marked failed, and
// ErrQueueFull or ErrRunnerStopped is returned.
func (r *Runner) Submit(f document.File) (*Job, error) {
	job := NewJob(f)
	r.jobs.Put(job)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		job.Fail(ErrorKindInternal, ErrRunnerStopped.Error())
		r.finished(job)
		return job, ErrRunnerStopped
	}
	select {
	case r.queue <- job:
		r.reportDepth()
		r.log.Info("job queued", "job_id", job.ID, "file", f.Name)
		return job, nil
	default:
		job.Fail(ErrorKindQueueFull, ErrQueueFull.Error())
		r.finished(job)
		return job, fmt.Errorf("%w (%d)", ErrQueueFull, r.cfg.QueueSize)
	}
}

// GetJob returns a job by ID, or nil.
func (r *Runner) GetJob(id string) *Job {
	return r.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (r *Runner) QueueDepth() int {
	return len(r.queue)
}

// JobCount returns the number of retained jobs.
func (r *Runner) JobCount() int {
	return r.jobs.Len()
}

func (r *Runner) run(ctx context.Context, job *Job, log *slog.Logger) {
	log = log.With("job_id", job.ID)
	job.SetStatus(StatusProcessing)

	doc, err := r.proc.Process(ctx, job.File())
	if err != nil {
		kind := ErrorKind(err)
		log.Warn("job failed", "kind", kind, "error", err)
		job.Fail(kind, err.Error())
	} else {
		log.Info("job completed", "words", doc.Metadata.WordCount)
		job.Complete(doc)
	}
	r.finished(job)
}

func (r *Runner) finished(job *Job) {
	if r.observer != nil {
		r.observer.ObserveJob(string(job.Snapshot().Status))
	}
}

func (r *Runner) reportDepth() {
	if r.observer != nil {
		r.observer.SetQueueDepth(len(r.queue))
	}
}

// ErrorKind classifies a Process error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		return ErrorKindUnsupported
	case errors.Is(err, document.ErrExtractionFailed):
		return ErrorKindExtraction
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTimeout
	default:
		return ErrorKindInternal
	}
}
