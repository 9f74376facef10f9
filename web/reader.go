// Package web implements the web_fetch research tool: fetch a page, keep
// its main content and hand it to the agents as markdown.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/goquery"
)

// Defaults for Reader.
const (
	DefaultMaxChars      = 40000
	DefaultMaxLinks      = 30
	DefaultMinContentLen = 200
)

// TruncationNotice is appended to content cut at MaxChars.
const TruncationNotice = "\n\n[Content truncated]"

// Ensure Reader implements lawdit.WebReader at compile time.
var _ lawdit.WebReader = (*Reader)(nil)

// Reader fetches with Static first and falls back to Browser when the
// static fetch fails or yields too little content. Extractors are tried in
// order until one returns content.
type Reader struct {
	Static     lawdit.Fetcher
	Browser    lawdit.Fetcher
	Extractors []lawdit.Extractor
	Converter  lawdit.Converter
	Limiter    *HostLimiter

	MaxChars      int
	MaxLinks      int
	MinContentLen int
}

// Read returns the page's main content as markdown together with its
// outgoing links.
func (r *Reader) Read(ctx context.Context, rawURL string) (*lawdit.WebPage, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "invalid URL %q: only absolute http(s) URLs can be fetched", rawURL)
	}
	pageURL := u.String()

	page, err := r.readWith(ctx, r.Static, u.Host, pageURL)
	if r.Browser == nil || (err == nil && utf8.RuneCountInString(page.Markdown) >= r.minContent()) {
		return page, err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if code := lawdit.ErrorCode(err); code == lawdit.ENOTFOUND || code == lawdit.EINVALID {
		return nil, err
	}

	rendered, berr := r.readWith(ctx, r.Browser, u.Host, pageURL)
	switch {
	case berr == nil && (page == nil || len(rendered.Markdown) > len(page.Markdown)):
		return rendered, nil
	case page != nil:
		return page, nil
	case err != nil:
		return nil, err
	default:
		return nil, berr
	}
}

func (r *Reader) readWith(ctx context.Context, f lawdit.Fetcher, host, pageURL string) (*lawdit.WebPage, error) {
	if f == nil {
		return nil, lawdit.Errorf(lawdit.EINVALID, "no fetcher configured")
	}
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx, host); err != nil {
			return nil, err
		}
	}

	html, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return r.process(html, pageURL)
}

func (r *Reader) process(html, pageURL string) (*lawdit.WebPage, error) {
	var title, content string
	for _, ext := range r.Extractors {
		res, err := ext.Extract(html)
		if err != nil {
			continue
		}
		if title == "" {
			title = res.Title
		}
		if strings.TrimSpace(res.ContentHTML) != "" {
			content = res.ContentHTML
			break
		}
	}
	if title == "" {
		title = goquery.ExtractTitle(html)
	}

	var markdown string
	if content != "" {
		md, err := r.Converter.Convert(content)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", pageURL, err)
		}
		markdown = md
	}

	links, err := goquery.ExtractLinks(html, pageURL, r.maxLinks())
	if err != nil {
		return nil, err
	}

	return &lawdit.WebPage{
		URL:      pageURL,
		Title:    title,
		Markdown: truncate(markdown, r.maxChars()),
		Links:    links,
	}, nil
}

func (r *Reader) maxChars() int {
	if r.MaxChars > 0 {
		return r.MaxChars
	}
	return DefaultMaxChars
}

func (r *Reader) maxLinks() int {
	if r.MaxLinks > 0 {
		return r.MaxLinks
	}
	return DefaultMaxLinks
}

func (r *Reader) minContent() int {
	if r.MinContentLen > 0 {
		return r.MinContentLen
	}
	return DefaultMinContentLen
}

// truncate cuts s to at most n runes, preferring a paragraph boundary in
// the last fifth of the allowance.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, "\n\n"); i > len(cut)*4/5 {
		cut = cut[:i]
	}
	return cut + TruncationNotice
}
