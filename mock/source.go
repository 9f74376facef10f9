package mock

import (
	"context"
	"io"

	"github.com/lawdit/lawdit"
)

var _ lawdit.Source = (*Source)(nil)

// Source is a mock implementation of lawdit.Source.
type Source struct {
	ListFilesFn   func(ctx context.Context) ([]*lawdit.SourceFile, error)
	DownloadPDFFn func(ctx context.Context, file *lawdit.SourceFile, w io.Writer) error
}

func (s *Source) ListFiles(ctx context.Context) ([]*lawdit.SourceFile, error) {
	return s.ListFilesFn(ctx)
}

func (s *Source) DownloadPDF(ctx context.Context, file *lawdit.SourceFile, w io.Writer) error {
	return s.DownloadPDFFn(ctx, file, w)
}
