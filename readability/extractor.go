// Package readability is the fallback main-content extractor, built on
// go-readability.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/lawdit/lawdit"
)

// Ensure Extractor implements lawdit.Extractor at compile time.
var _ lawdit.Extractor = (*Extractor)(nil)

// Extractor applies Mozilla's Readability heuristics.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content. When the page has no
// article title the site name is used.
func (e *Extractor) Extract(rawHTML string) (*lawdit.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = strings.TrimSpace(article.SiteName)
	}
	return &lawdit.ExtractResult{
		Title:       title,
		ContentHTML: article.Content,
	}, nil
}
