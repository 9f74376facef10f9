package mock

import (
	"context"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.WebSearcher = (*WebSearcher)(nil)
	_ lawdit.WebReader   = (*WebReader)(nil)
	_ lawdit.Fetcher     = (*Fetcher)(nil)
	_ lawdit.Extractor   = (*Extractor)(nil)
	_ lawdit.Converter   = (*Converter)(nil)
)

// WebSearcher is a mock implementation of lawdit.WebSearcher.
type WebSearcher struct {
	SearchFn func(ctx context.Context, query string, maxResults int) ([]lawdit.SearchResult, error)
}

func (s *WebSearcher) Search(ctx context.Context, query string, maxResults int) ([]lawdit.SearchResult, error) {
	return s.SearchFn(ctx, query, maxResults)
}

// WebReader is a mock implementation of lawdit.WebReader.
type WebReader struct {
	ReadFn func(ctx context.Context, url string) (*lawdit.WebPage, error)
}

func (r *WebReader) Read(ctx context.Context, url string) (*lawdit.WebPage, error) {
	return r.ReadFn(ctx, url)
}

// Fetcher is a mock implementation of lawdit.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// Extractor is a mock implementation of lawdit.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*lawdit.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*lawdit.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of lawdit.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
