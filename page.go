package lawdit

import (
	"context"
	"fmt"
)

// PageImageName returns the file name of a rendered page image. Zero padding
// keeps lexical order equal to page order.
func PageImageName(number int) string {
	return fmt.Sprintf("page_%04d.png", number)
}

// PageRenderer converts PDF pages to images.
type PageRenderer interface {
	// Render writes one PNG per page of the PDF into outDir and returns the
	// image paths ordered by page number.
	Render(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

// Summarizer produces the page and document summaries of the index.
type Summarizer interface {
	// SummarizePage describes a single page image.
	SummarizePage(ctx context.Context, image []byte, pageNum int) (string, error)

	// SummarizeDocument synthesizes page summaries into a document summary.
	SummarizeDocument(ctx context.Context, fileName string, pages []*Page) (string, error)
}
