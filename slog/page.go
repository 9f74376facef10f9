package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.PageRenderer = (*LoggingRenderer)(nil)
	_ lawdit.Summarizer   = (*LoggingSummarizer)(nil)
)

// LoggingRenderer wraps a PageRenderer with logging.
type LoggingRenderer struct {
	next   lawdit.PageRenderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next lawdit.PageRenderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the page count.
func (r *LoggingRenderer) Render(ctx context.Context, pdfPath, outDir string) (paths []string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"pdf", pdfPath,
			"pages", len(paths),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, pdfPath, outDir)
}

// LoggingSummarizer wraps a Summarizer with logging. Page summaries are
// logged at debug level since there is one per page.
type LoggingSummarizer struct {
	next   lawdit.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next lawdit.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// SummarizePage delegates to the wrapped summarizer.
func (s *LoggingSummarizer) SummarizePage(ctx context.Context, image []byte, pageNum int) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("summarize page",
			"page", pageNum,
			"imageBytes", len(image),
			"chars", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SummarizePage(ctx, image, pageNum)
}

// SummarizeDocument delegates to the wrapped summarizer.
func (s *LoggingSummarizer) SummarizeDocument(ctx context.Context, fileName string, pages []*lawdit.Page) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize document",
			"file", fileName,
			"pages", len(pages),
			"chars", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SummarizeDocument(ctx, fileName, pages)
}
