package gemini_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/fs"
	"github.com/lawdit/lawdit/gemini"
	"github.com/lawdit/lawdit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func documentFinder(docs ...*lawdit.Document) *mock.DocumentFinder {
	return &mock.DocumentFinder{
		FindDocumentsFn: func(_ context.Context, f lawdit.DocumentFilter) ([]*lawdit.Document, error) {
			var out []*lawdit.Document
			for _, d := range docs {
				if f.SourceID != nil && d.SourceID != *f.SourceID {
					continue
				}
				if f.DataRoomID != nil && d.DataRoomID != *f.DataRoomID {
					continue
				}
				out = append(out, d)
			}
			return out, nil
		},
	}
}

func TestWorkspaceTools(t *testing.T) {
	t.Parallel()

	t.Run("write, list and read files", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		ws := fs.NewWorkspace(t.TempDir(), "analysis")

		res, err := gemini.NewWriteFileTool(ws).Handle(ctx, map[string]any{
			"file_path": "/analysis/contracts/msa_findings.md",
			"content":   "# MSA\nUncapped indemnity.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Updated file /analysis/contracts/msa_findings.md", res.Response["result"])

		res, err = gemini.NewLsTool(ws).Handle(ctx, map[string]any{"path": "/analysis"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/analysis/contracts/msa_findings.md"}, res.Response["files"])

		res, err = gemini.NewReadFileTool(ws).Handle(ctx, map[string]any{"file_path": "/analysis/contracts/msa_findings.md"})
		require.NoError(t, err)
		assert.Equal(t, "# MSA\nUncapped indemnity.", res.Response["content"])
	})

	t.Run("ls of empty workspace returns empty list", func(t *testing.T) {
		t.Parallel()

		res, err := gemini.NewLsTool(fs.NewWorkspace(t.TempDir(), "analysis")).Handle(context.Background(), map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, []string{}, res.Response["files"])
	})

	t.Run("read of missing file returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewReadFileTool(fs.NewWorkspace(t.TempDir(), "analysis")).Handle(context.Background(), map[string]any{"file_path": "/nope.md"})

		assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
	})

	t.Run("write requires content", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewWriteFileTool(fs.NewWorkspace(t.TempDir(), "analysis")).Handle(context.Background(), map[string]any{"file_path": "/a.md"})

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}

func TestGetDocumentTool(t *testing.T) {
	t.Parallel()

	doc := &lawdit.Document{
		ID:         "a1f3",
		SourceID:   "doc-1",
		DataRoomID: "room-1",
		FileName:   "MSA.pdf",
		MimeType:   lawdit.MimePDF,
		TotalPages: 1,
		Summary:    "Master services agreement.",
		Pages:      []*lawdit.Page{{Number: 1, Summary: "Definitions."}},
	}

	t.Run("returns formatted summary", func(t *testing.T) {
		t.Parallel()

		res, err := gemini.NewGetDocumentTool(documentFinder(doc)).Handle(context.Background(), map[string]any{"doc_id": "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, lawdit.FormatDocumentSummary(doc), res.Response["content"])
	})

	t.Run("returns ENOTFOUND for unknown document", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewGetDocumentTool(documentFinder(doc)).Handle(context.Background(), map[string]any{"doc_id": "doc-9"})

		assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
	})
}

func TestGetDocumentPagesTool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	img := filepath.Join(dir, lawdit.PageImageName(2))
	require.NoError(t, os.WriteFile(img, []byte("png-2"), 0o644))

	doc := &lawdit.Document{
		SourceID: "doc-1",
		FileName: "MSA.pdf",
		Pages: []*lawdit.Page{
			{Number: 1, Summary: "Cover."},
			{Number: 2, Summary: "Liability cap.", ImagePath: img},
		},
	}

	t.Run("attaches page images and reports missing pages", func(t *testing.T) {
		t.Parallel()

		res, err := gemini.NewGetDocumentPagesTool(documentFinder(doc)).Handle(context.Background(), map[string]any{
			"doc_id":    "doc-1",
			"page_nums": []any{float64(2), float64(1), float64(5)},
		})

		require.NoError(t, err)
		assert.Equal(t, "MSA.pdf", res.Response["document"])
		assert.Equal(t, []map[string]any{{"page": 2, "summary": "Liability cap."}}, res.Response["pages"])
		assert.Equal(t, []int{1, 5}, res.Response["missing"])
		require.Len(t, res.Parts, 2)
		assert.Equal(t, "MSA.pdf, page 2:", res.Parts[0].Text)
		assert.Equal(t, []byte("png-2"), res.Parts[1].InlineData.Data)
	})

	t.Run("rejects too many pages", func(t *testing.T) {
		t.Parallel()

		nums := make([]any, gemini.MaxPagesPerCall+1)
		for i := range nums {
			nums[i] = float64(i + 1)
		}

		_, err := gemini.NewGetDocumentPagesTool(documentFinder(doc)).Handle(context.Background(), map[string]any{"doc_id": "doc-1", "page_nums": nums})

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})

	t.Run("rejects non-numeric pages", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewGetDocumentPagesTool(documentFinder(doc)).Handle(context.Background(), map[string]any{"doc_id": "doc-1", "page_nums": []any{"two"}})

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}

func TestInternetSearchTool(t *testing.T) {
	t.Parallel()

	searcher := func(got *int) *mock.WebSearcher {
		return &mock.WebSearcher{
			SearchFn: func(_ context.Context, query string, max int) ([]lawdit.SearchResult, error) {
				*got = max
				return []lawdit.SearchResult{{Title: "GDPR Art. 28", URL: "https://gdpr.eu/article-28", Snippet: "Processor obligations"}}, nil
			},
		}
	}

	t.Run("defaults to five results", func(t *testing.T) {
		t.Parallel()

		var max int
		res, err := gemini.NewInternetSearchTool(searcher(&max)).Handle(context.Background(), map[string]any{"query": "GDPR processor"})

		require.NoError(t, err)
		assert.Equal(t, gemini.DefaultSearchResults, max)
		hits := res.Response["results"].([]map[string]any)
		require.Len(t, hits, 1)
		assert.Equal(t, "https://gdpr.eu/article-28", hits[0]["url"])
	})

	t.Run("caps results", func(t *testing.T) {
		t.Parallel()

		var max int
		_, err := gemini.NewInternetSearchTool(searcher(&max)).Handle(context.Background(), map[string]any{"query": "q", "max_results": float64(50)})

		require.NoError(t, err)
		assert.Equal(t, gemini.MaxSearchResults, max)
	})

	t.Run("requires query", func(t *testing.T) {
		t.Parallel()

		var max int
		_, err := gemini.NewInternetSearchTool(searcher(&max)).Handle(context.Background(), map[string]any{"query": " "})

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}

func TestWebFetchTool(t *testing.T) {
	t.Parallel()

	reader := &mock.WebReader{
		ReadFn: func(_ context.Context, url string) (*lawdit.WebPage, error) {
			return &lawdit.WebPage{URL: url, Title: "Guidance", Markdown: "# Guidance", Links: []string{"https://example.gov/next"}}, nil
		},
	}

	res, err := gemini.NewWebFetchTool(reader).Handle(context.Background(), map[string]any{"url": "https://example.gov/guidance"})

	require.NoError(t, err)
	assert.Equal(t, "# Guidance", res.Response["content"])
	assert.Equal(t, "Guidance", res.Response["title"])
	assert.Equal(t, []string{"https://example.gov/next"}, res.Response["links"])
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	tool := func(r *gemini.Recorder, name string) *gemini.Tool {
		for _, tl := range r.Tools() {
			if tl.Name() == name {
				return tl
			}
		}
		t.Fatalf("tool %s not found", name)
		return nil
	}

	t.Run("records risks", func(t *testing.T) {
		t.Parallel()

		rec := gemini.NewRecorder()
		_, err := tool(rec, gemini.ToolRecordRisk).Handle(context.Background(), map[string]any{
			"title":       "Uncapped indemnity",
			"category":    "Contractual Risks",
			"severity":    "critical",
			"description": "Seller indemnity has no cap.",
			"documents":   []any{"MSA.pdf", ""},
		})

		require.NoError(t, err)
		risks := rec.Risks()
		require.Len(t, risks, 1)
		assert.Equal(t, lawdit.CategoryContracts, risks[0].Category)
		assert.Equal(t, lawdit.SeverityCritical, risks[0].Severity)
		assert.Equal(t, []string{"MSA.pdf"}, risks[0].Documents)
	})

	t.Run("rejects unknown severity", func(t *testing.T) {
		t.Parallel()

		rec := gemini.NewRecorder()
		_, err := tool(rec, gemini.ToolRecordRisk).Handle(context.Background(), map[string]any{
			"title": "x", "category": "ip", "severity": "catastrophic", "description": "d",
		})

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
		assert.Empty(t, rec.Risks())
	})

	t.Run("records summary and overviews", func(t *testing.T) {
		t.Parallel()

		rec := gemini.NewRecorder()
		_, err := tool(rec, gemini.ToolSetExecutiveSummary).Handle(context.Background(), map[string]any{"summary": " High exposure. "})
		require.NoError(t, err)
		_, err = tool(rec, gemini.ToolSetCategoryOverview).Handle(context.Background(), map[string]any{"category": "litigation", "overview": "Two pending claims."})
		require.NoError(t, err)

		assert.Equal(t, "High exposure.", rec.ExecutiveSummary())
		assert.Equal(t, map[lawdit.Category]string{lawdit.CategoryLitigation: "Two pending claims."}, rec.Overviews())
	})

	t.Run("declares enums for category and severity", func(t *testing.T) {
		t.Parallel()

		decl := tool(gemini.NewRecorder(), gemini.ToolRecordRisk).Declaration
		assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
		assert.Len(t, decl.Parameters.Properties["category"].Enum, len(lawdit.Categories))
		assert.Len(t, decl.Parameters.Properties["severity"].Enum, len(lawdit.Severities))
	})
}
