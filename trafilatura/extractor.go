// Package trafilatura extracts the main content of web pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/lawdit/lawdit"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements lawdit.Extractor at compile time.
var _ lawdit.Extractor = (*Extractor)(nil)

// Extractor keeps tables and links, which carry most of the substance of
// statutes and regulatory guidance, and drops comment sections.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeLinks:    true,
	}}
}

// Extract returns the page title and main content HTML. A page without
// recognizable main content yields an empty ContentHTML, not an error.
func (e *Extractor) Extract(rawHTML string) (*lawdit.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	out := &lawdit.ExtractResult{Title: strings.TrimSpace(result.Metadata.Title)}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
