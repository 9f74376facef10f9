package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.WebSearcher = (*LoggingWebSearcher)(nil)
	_ lawdit.WebReader   = (*LoggingWebReader)(nil)
)

// LoggingWebSearcher wraps a WebSearcher with logging.
type LoggingWebSearcher struct {
	next   lawdit.WebSearcher
	logger *slog.Logger
}

// NewLoggingWebSearcher creates a new LoggingWebSearcher.
func NewLoggingWebSearcher(next lawdit.WebSearcher, logger *slog.Logger) *LoggingWebSearcher {
	return &LoggingWebSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher.
func (s *LoggingWebSearcher) Search(ctx context.Context, query string, maxResults int) (results []lawdit.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("web search",
			"query", query,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, maxResults)
}

// LoggingWebReader wraps a WebReader with logging.
type LoggingWebReader struct {
	next   lawdit.WebReader
	logger *slog.Logger
}

// NewLoggingWebReader creates a new LoggingWebReader.
func NewLoggingWebReader(next lawdit.WebReader, logger *slog.Logger) *LoggingWebReader {
	return &LoggingWebReader{next: next, logger: logger}
}

// Read delegates to the wrapped reader.
func (r *LoggingWebReader) Read(ctx context.Context, url string) (page *lawdit.WebPage, err error) {
	defer func(begin time.Time) {
		var chars, links int
		if page != nil {
			chars = len(page.Markdown)
			links = len(page.Links)
		}
		r.logger.Info("web read",
			"url", url,
			"chars", chars,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Read(ctx, url)
}
