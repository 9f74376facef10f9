package lawdit

import (
	"context"
	"io"
)

// Deliverable file names written to the output directory.
const (
	ReportFileName       = "legal_risk_analysis_report.docx"
	DashboardFileName    = "risk_dashboard.html"
	DashboardPDFFileName = "risk_dashboard.pdf"
)

// DeliverableWriter renders an analysis into a deliverable format.
type DeliverableWriter interface {
	WriteDeliverable(ctx context.Context, w io.Writer, room *DataRoom, a *Analysis) error
}

// PDFPrinter prints an HTML file to PDF.
type PDFPrinter interface {
	PrintPDF(ctx context.Context, htmlPath, pdfPath string) error
}
