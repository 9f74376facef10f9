package gemini_test

import (
	"context"
	"testing"
	"time"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/fs"
	"github.com/lawdit/lawdit/gemini"
	"github.com/lawdit/lawdit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func analysisRequest(t *testing.T) (lawdit.AnalysisRequest, *fs.Workspace) {
	t.Helper()

	ws := fs.NewWorkspace(t.TempDir(), "analysis")
	doc := &lawdit.Document{
		ID:         "a1f3",
		SourceID:   "doc-1",
		DataRoomID: "room-1",
		FileName:   "MSA.pdf",
		Summary:    "Master services agreement.",
		Pages:      []*lawdit.Page{{Number: 1, Summary: "Indemnity without cap."}},
	}
	return lawdit.AnalysisRequest{
		DataRoom:  &lawdit.DataRoom{ID: "room-1", Name: "Acme"},
		Index:     lawdit.FormatIndex([]*lawdit.Document{doc}),
		Documents: documentFinder(doc),
		Workspace: ws,
		Focus:     []lawdit.FocusArea{lawdit.FocusContracts},
	}, ws
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("runs coordinator and subagents end to end", func(t *testing.T) {
		t.Parallel()

		req, _ := analysisRequest(t)
		gen := &scriptedGenerator{responses: []*genai.GenerateContentResponse{
			// coordinator
			callResponse(call(gemini.ToolTask, map[string]any{"subagent_type": gemini.DocumentAnalystName, "description": "Review doc-1 for contractual risks."})),
			// analyst
			callResponse(call(gemini.ToolGetDocument, map[string]any{"doc_id": "doc-1"})),
			textResponse("## Contracts\nUncapped indemnity in MSA.pdf page 1."),
			// coordinator
			callResponse(
				call(gemini.ToolWriteFile, map[string]any{"file_path": "/analysis/contracts/msa_findings.md", "content": "Uncapped indemnity."}),
				call(gemini.ToolWriteFile, map[string]any{"file_path": lawdit.SynthesisPath, "content": "# Synthesis\nOne critical risk."}),
			),
			callResponse(call(gemini.ToolTask, map[string]any{"subagent_type": gemini.DeliverableCreatorName, "description": "Create the deliverables."})),
			// deliverable creator
			callResponse(
				call(gemini.ToolRecordRisk, map[string]any{
					"title": "Uncapped indemnity", "category": "contracts", "severity": "Critical",
					"description": "No cap on seller indemnity.", "documents": []any{"MSA.pdf"},
				}),
				call(gemini.ToolSetExecutiveSummary, map[string]any{"summary": "One critical contractual risk."}),
				call(gemini.ToolSetCategoryOverview, map[string]any{"category": "contracts", "overview": "Indemnity exposure."}),
			),
			textResponse("Recorded 1 risk."),
			// coordinator
			textResponse("Analysis complete."),
		}}
		analyzer := gemini.NewAnalyzer(gen, "")
		analyzer.Now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

		a, err := analyzer.Analyze(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "room-1", a.DataRoomID)
		assert.Equal(t, []lawdit.FocusArea{lawdit.FocusContracts}, a.Focus)
		assert.Equal(t, "One critical contractual risk.", a.ExecutiveSummary)
		assert.Equal(t, "Indemnity exposure.", a.Overviews[lawdit.CategoryContracts])
		assert.Equal(t, "# Synthesis\nOne critical risk.", a.Synthesis)
		require.Len(t, a.Risks, 1)
		assert.Equal(t, lawdit.SeverityCritical, a.Risks[0].Severity)
		require.Len(t, a.Findings, 2)
		assert.Equal(t, "/analysis/contracts/msa_findings.md", a.Findings[0].Path)
		assert.Equal(t, lawdit.SynthesisPath, a.Findings[1].Path)
		assert.Equal(t, 1, a.DocumentCount)
		assert.Equal(t, 8, a.Iterations)
		assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), a.CreatedAt)

		first := gen.requests[0].Contents[0].Parts[0].Text
		assert.Contains(t, first, "# Data Room Index")
		assert.Contains(t, first, "Focus particularly on: contracts")

		analystReply := functionResponses(gen.requests[2])
		require.Len(t, analystReply, 1)
		assert.Contains(t, analystReply[0].Response["content"], "Indemnity without cap.")
	})

	t.Run("falls back to final text without synthesis file", func(t *testing.T) {
		t.Parallel()

		req, _ := analysisRequest(t)
		gen := &scriptedGenerator{responses: []*genai.GenerateContentResponse{textResponse("Nothing material found.")}}

		a, err := gemini.NewAnalyzer(gen, "").Analyze(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "Nothing material found.", a.Synthesis)
		assert.Equal(t, "Nothing material found.", a.ExecutiveSummary)
		assert.Empty(t, a.Risks)
		assert.Empty(t, a.Findings)
	})

	t.Run("registers research tools only when enabled and configured", func(t *testing.T) {
		t.Parallel()

		toolNames := func(req generateRequest) []string {
			var names []string
			for _, tl := range req.Config.Tools {
				for _, d := range tl.FunctionDeclarations {
					names = append(names, d.Name)
				}
			}
			return names
		}

		req, _ := analysisRequest(t)
		gen := &scriptedGenerator{}
		analyzer := gemini.NewAnalyzer(gen, "")
		analyzer.Searcher = &mock.WebSearcher{}
		analyzer.Reader = &mock.WebReader{}

		_, err := analyzer.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.NotContains(t, toolNames(gen.requests[0]), gemini.ToolInternetSearch)

		req.EnableWebSearch = true
		_, err = analyzer.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Contains(t, toolNames(gen.requests[1]), gemini.ToolInternetSearch)
		assert.Contains(t, toolNames(gen.requests[1]), gemini.ToolWebFetch)
	})

	t.Run("rejects empty index", func(t *testing.T) {
		t.Parallel()

		req, _ := analysisRequest(t)
		req.Index = "  "

		_, err := gemini.NewAnalyzer(&scriptedGenerator{}, "").Analyze(context.Background(), req)

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})

	t.Run("propagates iteration limit", func(t *testing.T) {
		t.Parallel()

		req, _ := analysisRequest(t)
		req.MaxIterations = 1
		gen := &scriptedGenerator{responses: []*genai.GenerateContentResponse{
			callResponse(call(gemini.ToolLs, map[string]any{})),
		}}

		_, err := gemini.NewAnalyzer(gen, "").Analyze(context.Background(), req)

		assert.Equal(t, lawdit.EINTERNAL, lawdit.ErrorCode(err))
		assert.Contains(t, lawdit.ErrorMessage(err), "exceeded 1 iterations")
	})
}
