package rod

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/lawdit/lawdit"
	lawditfs "github.com/lawdit/lawdit/fs"
)

// DefaultPrintTimeout bounds rendering one document to PDF.
const DefaultPrintTimeout = 60 * time.Second

// Ensure Printer implements lawdit.PDFPrinter at compile time.
var _ lawdit.PDFPrinter = (*Printer)(nil)

// Printer prints local HTML files to PDF with the browser's print engine.
type Printer struct {
	manager *BrowserManager
	Timeout time.Duration
}

// NewPrinter creates a Printer using m.
func NewPrinter(m *BrowserManager) *Printer {
	return &Printer{manager: m, Timeout: DefaultPrintTimeout}
}

// PrintPDF renders htmlPath as A4 with backgrounds and writes pdfPath
// atomically.
func (p *Printer) PrintPDF(ctx context.Context, htmlPath, pdfPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		return lawdit.Errorf(lawdit.ENOTFOUND, "html file %s not found", htmlPath)
	} else if err != nil {
		return err
	}
	if p.manager == nil {
		return lawdit.Errorf(lawdit.EINVALID, "printer has no browser")
	}

	browser, err := p.manager.Browser()
	if err != nil {
		return err
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPrintTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return err
	}
	defer func() {
		_ = page.Close()
		p.manager.PageDone()
	}()

	page = page.Context(ctx)
	if err := page.Navigate("file://" + filepath.ToSlash(abs)); err != nil {
		return fmt.Errorf("open %s: %w", htmlPath, err)
	}
	if err := page.WaitLoad(); err != nil {
		return err
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      floatPtr(8.27),
		PaperHeight:     floatPtr(11.69),
	})
	if err != nil {
		return fmt.Errorf("print %s: %w", htmlPath, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return fmt.Errorf("read pdf stream: %w", err)
	}
	return lawditfs.WriteFileAtomic(pdfPath, data)
}

func floatPtr(f float64) *float64 { return &f }
