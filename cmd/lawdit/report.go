package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/lawdit/lawdit"
	lawditfs "github.com/lawdit/lawdit/fs"
)

// Reporter writes the deliverables of an analysis.
type Reporter struct {
	Report    lawdit.DeliverableWriter
	Dashboard lawdit.DeliverableWriter

	// Printer, when set, also prints the dashboard to PDF.
	Printer lawdit.PDFPrinter
}

// Generate writes the Word report and the dashboard into dir, plus the
// dashboard PDF when a printer is set, and returns the written paths. Each
// file is rendered in memory and replaced atomically.
func (r *Reporter) Generate(ctx context.Context, dir string, room *lawdit.DataRoom, a *lawdit.Analysis) ([]string, error) {
	var paths []string
	for _, d := range []struct {
		name   string
		writer lawdit.DeliverableWriter
	}{
		{lawdit.ReportFileName, r.Report},
		{lawdit.DashboardFileName, r.Dashboard},
	} {
		var buf bytes.Buffer
		if err := d.writer.WriteDeliverable(ctx, &buf, room, a); err != nil {
			return paths, fmt.Errorf("render %s: %w", d.name, err)
		}
		path := filepath.Join(dir, d.name)
		if err := lawditfs.WriteFileAtomic(path, buf.Bytes()); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if r.Printer != nil {
		pdfPath := filepath.Join(dir, lawdit.DashboardPDFFileName)
		if err := r.Printer.PrintPDF(ctx, filepath.Join(dir, lawdit.DashboardFileName), pdfPath); err != nil {
			return paths, fmt.Errorf("print dashboard: %w", err)
		}
		paths = append(paths, pdfPath)
	}
	return paths, nil
}

// Run executes the report command.
func (c *ReportCmd) Run(deps *Dependencies) error {
	a, err := deps.Analyses.FindAnalysisByID(deps.Ctx, c.AnalysisID)
	if err != nil {
		if lawdit.ErrorCode(err) == lawdit.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: analysis %q not found. Use 'lawdit analyses NAME' to see stored analyses.\n", c.AnalysisID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		}
		return err
	}

	room, err := deps.DataRooms.FindDataRoomByID(deps.Ctx, a.DataRoomID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	paths, err := deps.Reporter.Generate(deps.Ctx, c.OutputDir, room, a)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: writing deliverables: %s\n", lawdit.ErrorMessage(err))
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", p)
	}
	return nil
}
