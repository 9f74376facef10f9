package mock

import (
	"context"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.PageRenderer = (*PageRenderer)(nil)
	_ lawdit.Summarizer   = (*Summarizer)(nil)
)

// PageRenderer is a mock implementation of lawdit.PageRenderer.
type PageRenderer struct {
	RenderFn func(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

func (r *PageRenderer) Render(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	return r.RenderFn(ctx, pdfPath, outDir)
}

// Summarizer is a mock implementation of lawdit.Summarizer.
type Summarizer struct {
	SummarizePageFn     func(ctx context.Context, image []byte, pageNum int) (string, error)
	SummarizeDocumentFn func(ctx context.Context, fileName string, pages []*lawdit.Page) (string, error)
}

func (s *Summarizer) SummarizePage(ctx context.Context, image []byte, pageNum int) (string, error) {
	return s.SummarizePageFn(ctx, image, pageNum)
}

func (s *Summarizer) SummarizeDocument(ctx context.Context, fileName string, pages []*lawdit.Page) (string, error) {
	return s.SummarizeDocumentFn(ctx, fileName, pages)
}
