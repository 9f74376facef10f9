// Package tavily implements web search with the Tavily search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lawdit/lawdit"
)

// DefaultEndpoint is the Tavily search endpoint.
const DefaultEndpoint = "https://api.tavily.com/search"

// Result limits.
const (
	DefaultMaxResults = 5
	MaxResults        = 10
)

// Ensure Searcher implements lawdit.WebSearcher at compile time.
var _ lawdit.WebSearcher = (*Searcher)(nil)

// Searcher queries the Tavily API.
type Searcher struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(url string) Option {
	return func(s *Searcher) { s.endpoint = url }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) { s.client = c }
}

// NewSearcher creates a Searcher authenticated with apiKey.
func NewSearcher(apiKey string, opts ...Option) *Searcher {
	s := &Searcher{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns up to maxResults hits. Non-positive values select the
// default; larger values are capped.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]lawdit.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "search query required")
	}
	if s.apiKey == "" {
		return nil, lawdit.Errorf(lawdit.EUNAVAILABLE, "tavily API key not configured")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	maxResults = min(maxResults, MaxResults)

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: maxResults, SearchDepth: "basic"})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		code := lawdit.EINTERNAL
		switch {
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
			resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			code = lawdit.EUNAVAILABLE
		case resp.StatusCode == http.StatusBadRequest:
			code = lawdit.EINVALID
		}
		return nil, lawdit.Errorf(code, "tavily search: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]lawdit.SearchResult, 0, len(out.Results))
	for _, r := range out.Results {
		if len(results) == maxResults {
			break
		}
		results = append(results, lawdit.SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	return results, nil
}
