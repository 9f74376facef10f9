// Package poppler renders PDF pages to PNG images with the poppler-utils
// pdftoppm command. Page counts come from pdfcpu.
package poppler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lawdit/lawdit"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// DPI bounds accepted by the renderer.
const (
	DefaultDPI = 200
	MinDPI     = 72
	MaxDPI     = 600
)

// Ensure Renderer implements lawdit.PageRenderer at compile time.
var _ lawdit.PageRenderer = (*Renderer)(nil)

// Renderer implements lawdit.PageRenderer using pdftoppm.
type Renderer struct {
	DPI         int
	Concurrency int

	// Command is the pdftoppm executable. Defaults to "pdftoppm" on PATH.
	Command string

	// CountPages returns the number of pages of a PDF. Defaults to pdfcpu.
	CountPages func(ctx context.Context, pdfPath string) (int, error)
}

// NewRenderer creates a Renderer with the given resolution.
func NewRenderer(dpi, concurrency int) (*Renderer, error) {
	if dpi == 0 {
		dpi = DefaultDPI
	}
	if dpi < MinDPI || dpi > MaxDPI {
		return nil, lawdit.Errorf(lawdit.EINVALID, "dpi must be between %d and %d", MinDPI, MaxDPI)
	}
	return &Renderer{DPI: dpi, Concurrency: concurrency}, nil
}

// Render writes page_NNNN.png for every page of the PDF into outDir and
// returns the image paths ordered by page number.
func (r *Renderer) Render(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	count := r.CountPages
	if count == nil {
		count = pdfcpuPageCount
	}
	n, err := count(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	if n == 0 {
		return nil, lawdit.Errorf(lawdit.EINVALID, "%s has no pages", filepath.Base(pdfPath))
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	paths := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range n {
		page := i + 1
		g.Go(func() error {
			path, err := r.renderPage(gctx, pdfPath, outDir, page)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *Renderer) renderPage(ctx context.Context, pdfPath, outDir string, page int) (string, error) {
	dpi := r.DPI
	if dpi == 0 {
		dpi = DefaultDPI
	}
	command := r.Command
	if command == "" {
		command = "pdftoppm"
	}

	name := lawdit.PageImageName(page)
	prefix := filepath.Join(outDir, strings.TrimSuffix(name, ".png"))
	p := strconv.Itoa(page)

	cmd := exec.CommandContext(ctx, command,
		"-png", "-r", strconv.Itoa(dpi), "-f", p, "-l", p, "-singlefile", pdfPath, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("render page %d: %w: %s", page, err, strings.TrimSpace(stderr.String()))
	}

	path := filepath.Join(outDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("render page %d: %w", page, err)
	}
	return path, nil
}

func pdfcpuPageCount(_ context.Context, pdfPath string) (int, error) {
	return api.PageCountFile(pdfPath)
}
