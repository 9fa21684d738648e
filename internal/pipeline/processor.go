// Package pipeline runs documents through extraction, normalization and
// analysis, either synchronously (Processor) or through a bounded job queue
// (Runner).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/plainspeak/internal/analysis"
	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/dgallion1/plainspeak/internal/extractor"
	"github.com/dgallion1/plainspeak/internal/structure"
	"github.com/dgallion1/plainspeak/internal/textnorm"
	"golang.org/x/sync/errgroup"
)

// Outcome labels reported to a DocumentObserver.
const (
	OutcomeOK          = "ok"
	OutcomeUnsupported = "unsupported"
	OutcomeFailed      = "extraction_failed"
	OutcomeTimeout     = "timeout"
	OutcomeCanceled    = "canceled"
)

// DocumentObserver receives one observation per Process call.
type DocumentObserver interface {
	ObserveDocument(format, outcome string, d time.Duration, words int)
}

// ProcessorOptions bound the work done for a single document.
type ProcessorOptions struct {
	// MaxContentRunes caps the normalized content; 0 means unbounded.
	MaxContentRunes int
	// Timeout applies to each Process call; 0 means only the caller's context.
	Timeout time.Duration
	// PDFFallback enables the secondary PDF reader.
	PDFFallback bool
}

// Processor turns one uploaded file into a ProcessedDocument. It holds no
// per-call state, so a single value is safe for concurrent use.
type Processor struct {
	opts     ProcessorOptions
	log      *slog.Logger
	observer DocumentObserver
	stats    *LatencyStats
}

func NewProcessor(opts ProcessorOptions, log *slog.Logger) Processor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return Processor{opts: opts, log: log}
}

// WithObserver returns a copy of p that reports to obs.
func (p Processor) WithObserver(obs DocumentObserver) Processor {
	p.observer = obs
	return p
}

// WithStats returns a copy of p that records successful durations in s.
func (p Processor) WithStats(s *LatencyStats) Processor {
	p.stats = s
	return p
}

// Process extracts, normalizes and analyzes f.
//
// Errors: *document.UnsupportedFormatError when no extractor claims the
// file, *document.ExtractionError when the extractor fails, and the
// context's error (wrapped) on cancellation or timeout.
func (p Processor) Process(ctx context.Context, f document.File) (*document.ProcessedDocument, error) {
	start := time.Now()
	log := p.log.With("file", f.Name, "size", len(f.Data))

	format, ex, err := extractor.ForFile(f.Name, f.MIMEType, extractor.Options{PDFFallback: p.opts.PDFFallback})
	if err != nil {
		log.Warn("unsupported format", "mime", f.MIMEType, "error", err)
		p.observe("", OutcomeUnsupported, start, 0)
		return nil, err
	}
	log = log.With("format", format)

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	res, err := ex.Extract(ctx, f.Data)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if ctxErr := contextError(ctx, err); ctxErr != nil {
			outcome := OutcomeCanceled
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				outcome = OutcomeTimeout
			}
			log.Warn("processing interrupted", "error", ctxErr)
			p.observe(string(format), outcome, start, 0)
			return nil, fmt.Errorf("process %s: %w", f.Name, ctxErr)
		}
		log.Error("extraction failed", "error", err)
		p.observe(string(format), OutcomeFailed, start, 0)
		return nil, &document.ExtractionError{Format: string(format), Err: err}
	}

	warnings := append([]string(nil), res.Warnings...)
	content := textnorm.Normalize(res.Text)
	if limit := p.opts.MaxContentRunes; limit > 0 && utf8.RuneCountInString(content) > limit {
		content = textnorm.NormalizeBounded(content, limit)
		warnings = append(warnings, fmt.Sprintf("content truncated to %d characters", limit))
	}
	if content == "" {
		warnings = append(warnings, document.WarningEmptyInput)
	}

	var (
		st document.Structure
		an document.Analysis
	)
	var g errgroup.Group
	g.Go(func() error {
		st = structure.Analyze(content)
		return nil
	})
	g.Go(func() error {
		an = analysis.Analyze(content)
		return nil
	})
	_ = g.Wait() // analyzers never fail

	elapsed := time.Since(start)
	doc := &document.ProcessedDocument{
		Content: content,
		Metadata: document.Metadata{
			FileName:         f.Name,
			FileSize:         int64(len(f.Data)),
			Format:           string(format),
			PageCount:        res.PageCount,
			WordCount:        textnorm.CountWords(content),
			CharacterCount:   utf8.RuneCountInString(content),
			ProcessingTimeMs: elapsed.Milliseconds(),
			ExtractionMethod: res.Method,
			Warnings:         warnings,
		},
		Structure: st,
		Analysis:  an,
	}

	log.Info("document processed",
		"method", res.Method,
		"words", doc.Metadata.WordCount,
		"sections", len(st.Sections),
		"complexity", an.Complexity,
		"warnings", len(warnings),
		"duration_ms", elapsed.Milliseconds(),
	)
	p.observe(string(format), OutcomeOK, start, doc.Metadata.WordCount)
	if p.stats != nil {
		p.stats.Record(string(format), elapsed)
	}
	return doc, nil
}

func (p Processor) observe(format, outcome string, start time.Time, words int) {
	if p.observer != nil {
		p.observer.ObserveDocument(format, outcome, time.Since(start), words)
	}
}

// contextError returns the context error behind err, if any.
func contextError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return ctx.Err()
}
