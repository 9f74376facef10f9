package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/lawdit/lawdit"
)

// Ensure Analyzer implements lawdit.Analyzer at compile time.
var _ lawdit.Analyzer = (*Analyzer)(nil)

// Analyzer runs the coordinator with its document-analyst and
// deliverable-creator subagents.
type Analyzer struct {
	gen   ContentGenerator
	model string

	// Searcher and Reader back the research tools. Both must be set for
	// research to be offered.
	Searcher lawdit.WebSearcher
	Reader   lawdit.WebReader

	Now func() time.Time
}

// NewAnalyzer creates an Analyzer. An empty model selects DefaultModel.
func NewAnalyzer(gen ContentGenerator, model string) *Analyzer {
	if model == "" {
		model = DefaultModel
	}
	return &Analyzer{gen: gen, model: model, Now: time.Now}
}

// Analyze runs one analysis. Agent files end up in req.Workspace; the
// returned Analysis carries the findings, the synthesis and the recorded
// risks and summaries.
func (a *Analyzer) Analyze(ctx context.Context, req lawdit.AnalysisRequest) (*lawdit.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	research := req.EnableWebSearch && a.Searcher != nil && a.Reader != nil
	docs := roomDocuments{finder: req.Documents, dataRoomID: req.DataRoom.ID}
	rec := NewRecorder()
	var iterations int
	countRun := func(r *RunResult) { iterations += r.Iterations }

	analyst := &Agent{
		Name:          DocumentAnalystName,
		Description:   documentAnalystDescription,
		Model:         a.model,
		Instructions:  DocumentAnalystInstructions(research),
		MaxIterations: req.MaxIterations,
		Tools: append([]*Tool{
			NewGetDocumentTool(docs),
			NewGetDocumentPagesTool(docs),
			NewWriteFileTool(req.Workspace),
		}, a.researchTools(research)...),
	}
	creator := &Agent{
		Name:          DeliverableCreatorName,
		Description:   deliverableCreatorDescription,
		Model:         a.model,
		Instructions:  deliverableCreatorInstructions,
		MaxIterations: req.MaxIterations,
		Tools: append([]*Tool{
			NewReadFileTool(req.Workspace),
			NewLsTool(req.Workspace),
		}, rec.Tools()...),
	}
	coordinator := &Agent{
		Name:          "coordinator",
		Model:         a.model,
		Instructions:  CoordinatorInstructions(research),
		MaxIterations: req.MaxIterations,
		Tools: append([]*Tool{
			NewTaskTool(a.gen, []*Agent{analyst, creator}, countRun),
			NewWriteFileTool(req.Workspace),
			NewReadFileTool(req.Workspace),
			NewLsTool(req.Workspace),
		}, a.researchTools(research)...),
	}

	res, err := coordinator.Run(ctx, a.gen, BuildAnalysisRequest(req.Index, req.Focus))
	if err != nil {
		return nil, err
	}
	countRun(res)

	findings, err := collectFindings(ctx, req.Workspace)
	if err != nil {
		return nil, err
	}

	synthesis, err := req.Workspace.ReadFile(ctx, lawdit.SynthesisPath)
	if lawdit.ErrorCode(err) == lawdit.ENOTFOUND {
		synthesis = res.Text
	} else if err != nil {
		return nil, err
	}

	indexed, err := docs.FindDocuments(ctx, lawdit.DocumentFilter{})
	if err != nil {
		return nil, err
	}

	summary := rec.ExecutiveSummary()
	if summary == "" {
		summary = res.Text
	}

	return &lawdit.Analysis{
		DataRoomID:       req.DataRoom.ID,
		Focus:            req.Focus,
		ExecutiveSummary: summary,
		Overviews:        rec.Overviews(),
		Synthesis:        strings.TrimSpace(synthesis),
		Findings:         findings,
		Risks:            rec.Risks(),
		DocumentCount:    len(indexed),
		Iterations:       iterations,
		CreatedAt:        a.Now().UTC(),
	}, nil
}

func (a *Analyzer) researchTools(enabled bool) []*Tool {
	if !enabled {
		return nil
	}
	return []*Tool{NewInternetSearchTool(a.Searcher), NewWebFetchTool(a.Reader)}
}

func collectFindings(ctx context.Context, ws lawdit.Workspace) ([]*lawdit.Finding, error) {
	paths, err := ws.ListFiles(ctx, "/analysis")
	if err != nil {
		return nil, err
	}
	findings := make([]*lawdit.Finding, 0, len(paths))
	for _, p := range paths {
		content, err := ws.ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		findings = append(findings, &lawdit.Finding{Path: p, Content: content})
	}
	return findings, nil
}

// roomDocuments restricts document lookups to one data room.
type roomDocuments struct {
	finder     lawdit.DocumentFinder
	dataRoomID string
}

func (r roomDocuments) FindDocuments(ctx context.Context, filter lawdit.DocumentFilter) ([]*lawdit.Document, error) {
	filter.DataRoomID = &r.dataRoomID
	return r.finder.FindDocuments(ctx, filter)
}
