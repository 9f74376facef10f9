// Package docx renders an analysis as a Word (.docx) report.
//
// The package is built directly on WordprocessingML: beevik/etree produces
// each XML part and archive/zip packages them.
package docx

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/lawdit/lawdit"
)

// Ensure Writer implements lawdit.DeliverableWriter at compile time.
var _ lawdit.DeliverableWriter = (*Writer)(nil)

// ReportTitle is the title on the cover page and in document properties.
const ReportTitle = "Legal Risk Analysis Report"

// TOCPlaceholder is shown until Word refreshes the table of contents.
const TOCPlaceholder = "Open this document in Word and accept the prompt to update fields to build the table of contents."

// SeverityColors maps severities to the hex color of their label.
var SeverityColors = map[lawdit.Severity]string{
	lawdit.SeverityCritical: "C00000",
	lawdit.SeverityHigh:     "FF6600",
	lawdit.SeverityMedium:   "FFC000",
	lawdit.SeverityLow:      "00B050",
}

// Writer writes the Word report.
type Writer struct {
	// Now is used for the generated date when the analysis has no
	// creation time.
	Now func() time.Time
}

// NewWriter returns a Writer using the wall clock.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// WriteDeliverable writes the report for analysis a of room to w.
func (w *Writer) WriteDeliverable(ctx context.Context, out io.Writer, room *lawdit.DataRoom, a *lawdit.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil || a == nil {
		return lawdit.Errorf(lawdit.EINVALID, "data room and analysis required")
	}

	generated := a.CreatedAt
	if generated.IsZero() {
		generated = w.Now()
	}

	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{"[Content_Types].xml", contentTypes()},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", coreProperties(room, generated)},
		{"word/_rels/document.xml.rels", documentRels()},
		{"word/styles.xml", styles()},
		{"word/settings.xml", settings()},
		{"word/document.xml", document(room, a, generated)},
	}

	zw := zip.NewWriter(out)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := p.doc.WriteTo(f); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func document(room *lawdit.DataRoom, a *lawdit.Analysis, generated time.Time) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	b := &body{el: root.CreateElement("w:body")}

	writeCover(b, room, a, generated)

	b.text("Heading1", "Table of Contents", runStyle{})
	b.tableOfContents(TOCPlaceholder)
	b.pageBreak()

	b.text("Heading1", "Executive Summary", runStyle{})
	summary := strings.TrimSpace(a.ExecutiveSummary)
	if summary == "" {
		summary = "No executive summary was produced for this analysis."
	}
	writeMarkdown(b, summary)
	writeSeverityOverview(b, a)
	b.pageBreak()

	groups := a.RisksByCategory()
	if len(groups) == 0 {
		b.text("Heading1", "Identified Risks", runStyle{})
		b.text("", "No risks were identified in the reviewed documents.", runStyle{})
	}
	for _, g := range groups {
		writeCategory(b, g)
	}

	b.text("Heading1", "Risk Matrix", runStyle{})
	writeRiskMatrix(b, a)

	sect := b.el.CreateElement("w:sectPr")
	pg := sect.CreateElement("w:pgSz")
	pg.CreateAttr("w:w", "11906")
	pg.CreateAttr("w:h", "16838")
	mar := sect.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		mar.CreateAttr(side, "1440")
	}
	return doc
}

func writeCover(b *body, room *lawdit.DataRoom, a *lawdit.Analysis, generated time.Time) {
	b.text("Title", ReportTitle, runStyle{})
	b.text("Subtitle", room.Name+" Data Room Due Diligence", runStyle{})
	b.text("", "Generated "+generated.Format("January 2, 2006"), runStyle{Italic: true})

	stats := fmt.Sprintf("%d risks identified", len(a.Risks))
	if n := len(a.Categories()); n > 0 {
		stats += fmt.Sprintf(" in %d categories", n)
	}
	if a.DocumentCount > 0 {
		stats += fmt.Sprintf(" across %d indexed documents", a.DocumentCount)
	}
	b.text("", stats, runStyle{})
	if len(a.Focus) > 0 {
		focus := make([]string, len(a.Focus))
		for i, f := range a.Focus {
			focus[i] = string(f)
		}
		b.text("", "Focus areas: "+strings.Join(focus, ", "), runStyle{})
	}
	b.pageBreak()
}

func writeSeverityOverview(b *body, a *lawdit.Analysis) {
	if len(a.Risks) == 0 {
		return
	}
	p := b.paragraph("")
	addRun(p, "Risk profile: ", runStyle{Bold: true})
	for i, sev := range lawdit.Severities {
		if i > 0 {
			addRun(p, ", ", runStyle{})
		}
		addRun(p, fmt.Sprintf("%d %s", a.CountBySeverity(sev), sev), runStyle{Bold: true, Color: SeverityColors[sev]})
	}
}

func writeCategory(b *body, g lawdit.CategoryRisks) {
	b.text("Heading1", g.Category.Title(), runStyle{})
	if overview := strings.TrimSpace(g.Overview); overview != "" {
		writeMarkdown(b, overview)
	}

	for _, r := range g.Risks {
		b.text("Heading2", r.Title, runStyle{})

		p := b.paragraph("")
		addRun(p, "Severity: ", runStyle{Bold: true})
		addRun(p, string(r.Severity), runStyle{Bold: true, Color: SeverityColors[r.Severity]})

		for _, sub := range []struct{ title, text string }{
			{"Description", r.Description},
			{"Supporting Evidence", r.Evidence},
			{"Potential Impact", r.Impact},
			{"Recommendations", r.Recommendations},
		} {
			if strings.TrimSpace(sub.text) == "" {
				continue
			}
			b.text("Heading3", sub.title, runStyle{})
			writeMarkdown(b, sub.text)
		}

		if len(r.Documents) > 0 {
			p := b.paragraph("")
			addRun(p, "Documents: ", runStyle{Bold: true})
			addRun(p, strings.Join(r.Documents, ", "), runStyle{Italic: true})
		}
	}
}

// writeRiskMatrix lists every risk ordered by severity, then category.
func writeRiskMatrix(b *body, a *lawdit.Analysis) {
	var risks []*lawdit.Risk
	for _, g := range a.RisksByCategory() {
		risks = append(risks, g.Risks...)
	}
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity.Rank() < risks[j].Severity.Rank()
	})

	t := b.table([]string{"Risk", "Category", "Severity", "Documents"}, []int{3600, 2200, 1200, 2000})
	for _, r := range risks {
		docs := strings.Join(r.Documents, ", ")
		if docs == "" {
			docs = "-"
		}
		t.row(
			[]string{r.Title, r.Category.Title(), string(r.Severity), docs},
			[]runStyle{{}, {}, {Bold: true, Color: SeverityColors[r.Severity]}, {}},
		)
	}
}

// writeMarkdown renders agent-written markdown as report paragraphs.
// Headings inside the text sit below the section's own heading level.
func writeMarkdown(b *body, markdown string) {
	for _, blk := range lawdit.ParseMarkdown(markdown) {
		switch blk.Kind {
		case lawdit.BlockHeading:
			b.text("Heading3", blk.Text, runStyle{})
		case lawdit.BlockBullet:
			p := b.paragraph("ListBullet")
			if blk.Level > 0 {
				ind := p.SelectElement("w:pPr").CreateElement("w:ind")
				ind.CreateAttr("w:left", strconv.Itoa(720*(blk.Level+1)))
			}
			addRun(p, "• "+blk.Text, runStyle{})
		case lawdit.BlockCode:
			p := b.paragraph("Code")
			for i, line := range strings.Split(blk.Text, "\n") {
				if i > 0 {
					p.CreateElement("w:r").CreateElement("w:br")
				}
				addRun(p, line, runStyle{})
			}
		default:
			b.text("", blk.Text, runStyle{})
		}
	}
}
