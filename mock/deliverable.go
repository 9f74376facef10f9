package mock

import (
	"context"
	"io"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.DeliverableWriter = (*DeliverableWriter)(nil)
	_ lawdit.PDFPrinter        = (*PDFPrinter)(nil)
)

// DeliverableWriter is a mock implementation of lawdit.DeliverableWriter.
type DeliverableWriter struct {
	WriteDeliverableFn func(ctx context.Context, w io.Writer, room *lawdit.DataRoom, a *lawdit.Analysis) error
}

func (d *DeliverableWriter) WriteDeliverable(ctx context.Context, w io.Writer, room *lawdit.DataRoom, a *lawdit.Analysis) error {
	return d.WriteDeliverableFn(ctx, w, room, a)
}

// PDFPrinter is a mock implementation of lawdit.PDFPrinter.
type PDFPrinter struct {
	PrintPDFFn func(ctx context.Context, htmlPath, pdfPath string) error
}

func (p *PDFPrinter) PrintPDF(ctx context.Context, htmlPath, pdfPath string) error {
	return p.PrintPDFFn(ctx, htmlPath, pdfPath)
}
