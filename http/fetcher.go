// Package http fetches static web pages for the web_fetch tool.
package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/lawdit/lawdit"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodyBytes caps the size of a downloaded page.
const DefaultMaxBodyBytes = 5 << 20

// UserAgent identifies lawdit to web servers.
const UserAgent = "lawdit/1.0 (+legal due diligence research)"

// Ensure Fetcher implements lawdit.Fetcher at compile time.
var _ lawdit.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML with plain HTTP GET requests. It does not run
// JavaScript; rod.Fetcher covers pages that need it.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxBodyBytes sets the body size limit.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch returns the body of an HTML or plain-text page. Missing pages map
// to ENOTFOUND, throttling and server errors to EUNAVAILABLE, and other
// content types to EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", lawdit.Errorf(lawdit.EINVALID, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", lawdit.Errorf(lawdit.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", lawdit.Errorf(lawdit.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil && !isTextual(mediaType) {
			return "", lawdit.Errorf(lawdit.EINVALID, "unsupported content type %s for %s", mediaType, url)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func isTextual(mediaType string) bool {
	return mediaType == "text/html" ||
		mediaType == "application/xhtml+xml" ||
		strings.HasPrefix(mediaType, "text/")
}
