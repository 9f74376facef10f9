// Package dashboard renders an analysis as a self-contained interactive
// HTML page.
package dashboard

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/lawdit/lawdit"
)

// Ensure Writer implements lawdit.DeliverableWriter at compile time.
var _ lawdit.DeliverableWriter = (*Writer)(nil)

//go:embed dashboard.html.tmpl
var dashboardHTML string

var tmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"markdown":  lawdit.ParseMarkdown,
	"lower":     strings.ToLower,
	"isHeading": func(b lawdit.Block) bool { return b.Kind == lawdit.BlockHeading },
	"isBullet":  func(b lawdit.Block) bool { return b.Kind == lawdit.BlockBullet },
	"isCode":    func(b lawdit.Block) bool { return b.Kind == lawdit.BlockCode },
}).Parse(dashboardHTML))

// Writer writes the HTML dashboard.
type Writer struct {
	Now func() time.Time
}

// NewWriter returns a Writer using the wall clock.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// Stats are the headline numbers shown above the risk cards.
type Stats struct {
	Total            int
	Critical         int
	High             int
	Categories       int
	DocumentsIndexed int
}

// CategoryOption is a category offered in the filter.
type CategoryOption struct {
	Key   string
	Title string
}

// RiskView is one risk card. The JSON form is embedded in the page for
// scripting.
type RiskView struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	CategoryTitle   string   `json:"categoryTitle"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	Evidence        string   `json:"evidence"`
	Impact          string   `json:"impact"`
	Recommendations string   `json:"recommendations"`
	Documents       []string `json:"documents"`
}

// SearchText is the lowercased text matched by the search box.
func (r RiskView) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		r.Title, r.CategoryTitle, r.Description, r.Evidence, r.Impact, r.Recommendations, strings.Join(r.Documents, " "),
	}, " "))
}

type page struct {
	DataRoom         string
	AnalysisID       string
	Generated        string
	ExecutiveSummary string
	Stats            Stats
	Categories       []CategoryOption
	Severities       []string
	Risks            []RiskView
}

// WriteDeliverable writes the dashboard for analysis a of room to w.
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

	p := page{
		DataRoom:         room.Name,
		AnalysisID:       a.ID,
		Generated:        generated.Format("January 2, 2006 15:04 MST"),
		ExecutiveSummary: a.ExecutiveSummary,
		Stats: Stats{
			Total:            len(a.Risks),
			Critical:         a.CountBySeverity(lawdit.SeverityCritical),
			High:             a.CountBySeverity(lawdit.SeverityHigh),
			Categories:       len(a.Categories()),
			DocumentsIndexed: a.DocumentCount,
		},
		Risks: []RiskView{},
	}
	for _, sev := range lawdit.Severities {
		p.Severities = append(p.Severities, string(sev))
	}

	for _, g := range a.RisksByCategory() {
		p.Categories = append(p.Categories, CategoryOption{Key: string(g.Category), Title: g.Category.Title()})
		for _, r := range g.Risks {
			docs := r.Documents
			if docs == nil {
				docs = []string{}
			}
			p.Risks = append(p.Risks, RiskView{
				ID:              r.ID,
				Title:           r.Title,
				Category:        string(r.Category),
				CategoryTitle:   r.Category.Title(),
				Severity:        string(r.Severity),
				Description:     r.Description,
				Evidence:        r.Evidence,
				Impact:          r.Impact,
				Recommendations: r.Recommendations,
				Documents:       docs,
			})
		}
	}

	// Render to a buffer so a template failure leaves out untouched.
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	_, err := buf.WriteTo(out)
	return err
}
