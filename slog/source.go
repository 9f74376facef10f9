package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lawdit/lawdit"
)

// Ensure LoggingSource implements lawdit.Source.
var _ lawdit.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with logging of listings and downloads.
type LoggingSource struct {
	next   lawdit.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next lawdit.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// ListFiles delegates to the wrapped source and logs the file count.
func (s *LoggingSource) ListFiles(ctx context.Context) (files []*lawdit.SourceFile, err error) {
	defer func(begin time.Time) {
		s.logger.Info("list files",
			"count", len(files),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListFiles(ctx)
}

// DownloadPDF delegates to the wrapped source and logs bytes written.
func (s *LoggingSource) DownloadPDF(ctx context.Context, file *lawdit.SourceFile, w io.Writer) (err error) {
	cw := &countingWriter{w: w}
	defer func(begin time.Time) {
		s.logger.Info("download",
			"file", file.Name,
			"id", file.ID,
			"mime", file.MimeType,
			"bytes", cw.n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DownloadPDF(ctx, file, cw)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
