// Command plainspeak processes documents from the command line and prints
// one JSON result per file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/plainspeak/internal/chunker"
	"github.com/dgallion1/plainspeak/internal/config"
	"github.com/dgallion1/plainspeak/internal/document"
	"github.com/dgallion1/plainspeak/internal/extractor"
	"github.com/dgallion1/plainspeak/internal/pipeline"
	flag "github.com/spf13/pflag"
)

type output struct {
	*document.ProcessedDocument
	Chunks []document.Chunk `json:"chunks,omitempty"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defaults := config.Defaults()

	fs := flag.NewFlagSet("plainspeak", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		withChunks = fs.Bool("chunks", false, "include section chunks in the output")
		chunkSize  = fs.Int("chunk-size", defaults.DefaultChunkSize, "target chunk size in tokens")
		overlap    = fs.Int("overlap", defaults.DefaultChunkOverlap, "chunk overlap in tokens")
		mimeType   = fs.String("mime", "", "declared MIME type, overrides the file extension")
		timeout    = fs.Duration("timeout", defaults.ProcessTimeout, "per-file processing timeout")
		maxRunes   = fs.Int("max-runes", defaults.MaxContentRunes, "truncate content to this many characters (0 = unbounded)")
		noFallback = fs.Bool("no-pdf-fallback", false, "disable the secondary PDF reader")
		pretty     = fs.BoolP("pretty", "p", false, "indent JSON output")
		logLevel   = fs.String("log-level", "warn", "log level: debug, info, warn, error")
		listFmts   = fs.Bool("formats", false, "list supported formats and exit")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: plainspeak [flags] file...\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *listFmts {
		for _, f := range extractor.SupportedFormats() {
			fmt.Fprintln(stdout, f)
		}
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelWarn
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	proc := pipeline.NewProcessor(pipeline.ProcessorOptions{
		MaxContentRunes: *maxRunes,
		Timeout:         *timeout,
		PDFFallback:     !*noFallback,
	}, log)
	chunkCfg := chunker.Config{ChunkSize: *chunkSize, ChunkOverlap: *overlap}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, path := range fs.Args() {
		start := time.Now()
		doc, err := processFile(ctx, proc, path, *mimeType)
		if err != nil {
			log.Error("process failed", "file", path, "error", err)
			failed++
			continue
		}
		out := output{ProcessedDocument: doc}
		if *withChunks {
			out.Chunks = chunker.ChunkSections(doc.Structure.Sections, chunkCfg)
		}
		if err := enc.Encode(out); err != nil {
			log.Error("write output", "error", err)
			return 1
		}
		log.Debug("processed", "file", path, "duration", time.Since(start))
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func processFile(ctx context.Context, proc pipeline.Processor, path, mimeType string) (*document.ProcessedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return proc.Process(ctx, document.File{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Data:     data,
	})
}
