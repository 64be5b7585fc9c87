// Package pipeline runs a single file through validation, extraction and
// summarization, reporting coarse progress along the way.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docsummary/internal/domain"
	"docsummary/internal/extractor"
	"docsummary/internal/upload"
)

const (
	ProgressIdle      = 0
	ProgressStarted   = 20
	ProgressExtracted = 50
	ProgressSending   = 70
	ProgressDone      = 100
)

// SummaryClient sends extracted text to the summarization endpoint.
type SummaryClient interface {
	Summarize(ctx context.Context, content string, fileName string) (*domain.SummaryResult, error)
}

// ProgressFunc receives a percentage at each milestone.
type ProgressFunc func(percent int)

type Pipeline struct {
	extractors extractor.Set
	client     SummaryClient
	progress   ProgressFunc
	log        *slog.Logger
}

func New(extractors extractor.Set, client SummaryClient, progress ProgressFunc, log *slog.Logger) *Pipeline {
	if progress == nil {
		progress = func(int) {}
	}

	return &Pipeline{
		extractors: extractors,
		client:     client,
		progress:   progress,
		log:        log,
	}
}

// Run processes file and returns its summary. Progress goes back to
// ProgressIdle when any step fails.
func (p *Pipeline) Run(ctx context.Context, file domain.UploadedFile) (*domain.SummaryResult, error) {
	if p.client == nil {
		return nil, errors.New("summary client is not configured")
	}

	p.progress(ProgressStarted)

	processed, kind, err := upload.Process(ctx, file, p.extractors)
	if err != nil {
		p.progress(ProgressIdle)
		return nil, fmt.Errorf("process file: %w", err)
	}

	p.progress(ProgressExtracted)

	p.log.DebugContext(ctx, "File is processed",
		"fileName", processed.Name,
		"kind", kind,
		"contentLength", len(processed.Content))

	p.progress(ProgressSending)

	result, err := p.client.Summarize(ctx, processed.Content, processed.Name)
	if err != nil {
		p.progress(ProgressIdle)
		return nil, fmt.Errorf("summarize file: %w", err)
	}

	p.progress(ProgressDone)

	return result, nil
}
