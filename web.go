package lawdit

import "context"

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearcher searches the web for legal context.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// WebPage is a fetched page reduced to markdown.
type WebPage struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	Links    []string `json:"links,omitempty"`
}

// WebReader fetches a URL and returns its main content.
// Implementations hide fetching, content extraction and markdown conversion.
type WebReader interface {
	Read(ctx context.Context, url string) (*WebPage, error)
}
