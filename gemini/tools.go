package gemini

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/lawdit/lawdit"
	"google.golang.org/genai"
)

// Tool names exposed to the agents.
const (
	ToolTask                = "task"
	ToolWriteFile           = "write_file"
	ToolReadFile            = "read_file"
	ToolLs                  = "ls"
	ToolGetDocument         = "get_document"
	ToolGetDocumentPages    = "get_document_pages"
	ToolInternetSearch      = "internet_search"
	ToolWebFetch            = "web_fetch"
	ToolRecordRisk          = "record_risk"
	ToolSetExecutiveSummary = "set_executive_summary"
	ToolSetCategoryOverview = "set_category_overview"
)

// Search result limits for internet_search.
const (
	DefaultSearchResults = 5
	MaxSearchResults     = 10
)

// MaxPagesPerCall bounds get_document_pages.
const MaxPagesPerCall = 10

// NewTaskTool delegates work to a subagent in a fresh conversation and
// returns its final answer. Each run's iterations are reported to onRun.
func NewTaskTool(gen ContentGenerator, subagents []*Agent, onRun func(*RunResult)) *Tool {
	byName := make(map[string]*Agent, len(subagents))
	var names, lines []string
	for _, s := range subagents {
		byName[s.Name] = s
		names = append(names, s.Name)
		lines = append(lines, fmt.Sprintf("- %s: %s", s.Name, s.Description))
	}

	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ToolTask,
			Description: "Delegate a task to a specialized subagent. The subagent starts with no context besides the description you give it and returns its final report.\n\nAvailable subagents:\n" + strings.Join(lines, "\n"),
			Parameters: objectSchema(map[string]*genai.Schema{
				"subagent_type": {Type: genai.TypeString, Description: "Subagent to run.", Enum: names},
				"description":   stringSchema("Complete instructions for the subagent."),
			}, "subagent_type", "description"),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			name, err := stringArg(args, "subagent_type")
			if err != nil {
				return nil, err
			}
			desc, err := stringArg(args, "description")
			if err != nil {
				return nil, err
			}
			sub, ok := byName[name]
			if !ok {
				return nil, lawdit.Errorf(lawdit.ENOTFOUND, "unknown subagent %q", name)
			}
			res, err := sub.Run(ctx, gen, desc)
			if err != nil {
				return nil, err
			}
			if onRun != nil {
				onRun(res)
			}
			return textResult("result", res.Text), nil
		},
	}
}

// NewWriteFileTool writes a workspace file.
func NewWriteFileTool(ws lawdit.Workspace) *Tool {
	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ToolWriteFile,
			Description: "Write a markdown file to the shared filesystem, replacing any existing content. Paths are absolute, e.g. /analysis/contracts/customer_contracts_findings.md.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"file_path": stringSchema("Absolute file path."),
				"content":   stringSchema("File content."),
			}, "file_path", "content"),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			path, err := stringArg(args, "file_path")
			if err != nil {
				return nil, err
			}
			content, err := stringArg(args, "content")
			if err != nil {
				return nil, err
			}
			if err := ws.WriteFile(ctx, path, content); err != nil {
				return nil, err
			}
			return textResult("result", "Updated file "+path), nil
		},
	}
}

// NewReadFileTool reads a workspace file.
func NewReadFileTool(ws lawdit.Workspace) *Tool {
	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ToolReadFile,
			Description: "Read a file from the shared filesystem.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"file_path": stringSchema("Absolute file path."),
			}, "file_path"),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			path, err := stringArg(args, "file_path")
			if err != nil {
				return nil, err
			}
			content, err := ws.ReadFile(ctx, path)
			if err != nil {
				return nil, err
			}
			return textResult("content", content), nil
		},
	}
}

// NewLsTool lists workspace files under a directory.
func NewLsTool(ws lawdit.Workspace) *Tool {
	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ToolLs,
			Description: "List files in the shared filesystem under a directory (default /).",
			Parameters: objectSchema(map[string]*genai.Schema{
				"path": stringSchema("Directory to list."),
			}),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			dir := optionalStringArg(args, "path")
			if dir == "" {
				dir = "/"
			}
			files, err := ws.ListFiles(ctx, dir)
			if err != nil {
				return nil, err
			}
			if files == nil {
				files = []string{}
			}
			return &ToolResult{Response: map[string]any{"files": files}}, nil
		},
	}
}

// NewGetDocumentTool returns a document's summary and page summaries.
func NewGetDocumentTool(docs lawdit.DocumentFinder) *Tool {
	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ToolGetDocument,
			Description: "Retrieve the complete summary of a document, including its page-by-page summaries. Use the document ID from the Data Room Index.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"doc_id": stringSchema("Document ID from the Data Room Index."),
			}, "doc_id"),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			doc, err := findDocument(ctx, docs, args)
			if err != nil {
				return nil, err
			}
			return textResult("content", lawdit.FormatDocumentSummary(doc)), nil
		},
	}
}

// NewGetDocumentPagesTool returns page images of a document. The images
// are attached as inline PNG parts after the function response.
func NewGetDocumentPagesTool(docs lawdit.DocumentFinder) *Tool {
	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: ToolGetDocumentPages,
			Description: fmt.Sprintf("Retrieve page images of a document for detailed review of clauses, signatures, figures or amendments. "+
				"Page images consume significant context; request only the pages you need (at most %d per call).", MaxPagesPerCall),
			Parameters: objectSchema(map[string]*genai.Schema{
				"doc_id": stringSchema("Document ID from the Data Room Index."),
				"page_nums": {
					Type:        genai.TypeArray,
					Description: "Page numbers to retrieve, e.g. [3, 7].",
					Items:       &genai.Schema{Type: genai.TypeInteger},
				},
			}, "doc_id", "page_nums"),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			doc, err := findDocument(ctx, docs, args)
			if err != nil {
				return nil, err
			}
			nums, err := intSliceArg(args, "page_nums")
			if err != nil {
				return nil, err
			}
			if len(nums) == 0 {
				return nil, lawdit.Errorf(lawdit.EINVALID, "page_nums required")
			}
			if len(nums) > MaxPagesPerCall {
				return nil, lawdit.Errorf(lawdit.EINVALID, "at most %d pages per call", MaxPagesPerCall)
			}

			found, missing := lawdit.SelectPages(doc, nums)
			pages := make([]map[string]any, 0, len(found))
			var parts []*genai.Part
			for _, p := range found {
				if p.ImagePath == "" {
					missing = append(missing, p.Number)
					continue
				}
				data, err := os.ReadFile(p.ImagePath)
				if err != nil {
					missing = append(missing, p.Number)
					continue
				}
				pages = append(pages, map[string]any{"page": p.Number, "summary": p.Summary})
				parts = append(parts,
					genai.NewPartFromText(fmt.Sprintf("%s, page %d:", doc.FileName, p.Number)),
					genai.NewPartFromBytes(data, "image/png"),
				)
			}
			sort.Ints(missing)

			resp := map[string]any{
				"document": doc.FileName,
				"pages":    pages,
			}
			if len(missing) > 0 {
				resp["missing"] = missing
			}
			return &ToolResult{Response: resp, Parts: parts}, nil
		},
	}
}

func findDocument(ctx context.Context, docs lawdit.DocumentFinder, args map[string]any) (*lawdit.Document, error) {
	id, err := stringArg(args, "doc_id")
	if err != nil {
		return nil, err
	}
	found, err := docs.FindDocuments(ctx, lawdit.DocumentFilter{SourceID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, lawdit.Errorf(lawdit.ENOTFOUND, "document %s not found", id)
	}
	return found[0], nil
}

// NewInternetSearchTool searches the web.
func NewInternetSearchTool(searcher lawdit.WebSearcher) *Tool {
	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ToolInternetSearch,
			Description: "Search the internet for legal standards, regulations, case law or industry practice that inform the risk analysis.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"query":       stringSchema("Search query focused on legal or regulatory topics."),
				"max_results": {Type: genai.TypeInteger, Description: fmt.Sprintf("Maximum results (default %d, at most %d).", DefaultSearchResults, MaxSearchResults)},
			}, "query"),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(query) == "" {
				return nil, lawdit.Errorf(lawdit.EINVALID, "query required")
			}
			n := intArg(args, "max_results", DefaultSearchResults)
			if n <= 0 {
				n = DefaultSearchResults
			}
			n = min(n, MaxSearchResults)

			results, err := searcher.Search(ctx, query, n)
			if err != nil {
				return nil, err
			}
			hits := make([]map[string]any, 0, len(results))
			for _, r := range results {
				hits = append(hits, map[string]any{"title": r.Title, "url": r.URL, "snippet": r.Snippet})
			}
			return &ToolResult{Response: map[string]any{"results": hits}}, nil
		},
	}
}

// NewWebFetchTool fetches a page as markdown.
func NewWebFetchTool(reader lawdit.WebReader) *Tool {
	return &Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ToolWebFetch,
			Description: "Fetch a web page and return its main content as markdown, e.g. regulatory guidance found through internet_search.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"url": stringSchema("Absolute http(s) URL."),
			}, "url"),
		},
		Handle: func(ctx context.Context, args map[string]any) (*ToolResult, error) {
			url, err := stringArg(args, "url")
			if err != nil {
				return nil, err
			}
			page, err := reader.Read(ctx, url)
			if err != nil {
				return nil, err
			}
			resp := map[string]any{
				"url":     page.URL,
				"title":   page.Title,
				"content": page.Markdown,
			}
			if len(page.Links) > 0 {
				resp["links"] = page.Links
			}
			return &ToolResult{Response: resp}, nil
		},
	}
}

// Recorder collects the structured deliverable content produced by the
// deliverable creator.
type Recorder struct {
	mu        sync.Mutex
	summary   string
	overviews map[lawdit.Category]string
	risks     []*lawdit.Risk
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{overviews: make(map[lawdit.Category]string)}
}

// ExecutiveSummary returns the recorded executive summary.
func (r *Recorder) ExecutiveSummary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Overviews returns a copy of the recorded category overviews.
func (r *Recorder) Overviews() map[lawdit.Category]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[lawdit.Category]string, len(r.overviews))
	for k, v := range r.overviews {
		out[k] = v
	}
	return out
}

// Risks returns the recorded risks in recording order.
func (r *Recorder) Risks() []*lawdit.Risk {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*lawdit.Risk(nil), r.risks...)
}

// Tools returns record_risk, set_executive_summary and set_category_overview.
func (r *Recorder) Tools() []*Tool {
	categories := make([]string, 0, len(lawdit.Categories))
	for _, c := range lawdit.Categories {
		categories = append(categories, string(c))
	}
	severities := make([]string, 0, len(lawdit.Severities))
	for _, s := range lawdit.Severities {
		severities = append(severities, string(s))
	}

	return []*Tool{
		{
			Declaration: &genai.FunctionDeclaration{
				Name:        ToolRecordRisk,
				Description: "Record one identified risk for the report and dashboard. Call once per risk.",
				Parameters: objectSchema(map[string]*genai.Schema{
					"title":           stringSchema("Short risk title."),
					"category":        {Type: genai.TypeString, Enum: categories, Description: "Risk category."},
					"severity":        {Type: genai.TypeString, Enum: severities, Description: "Risk severity."},
					"description":     stringSchema("Description of the issue."),
					"evidence":        stringSchema("Supporting evidence with document and page references."),
					"impact":          stringSchema("Potential impact or exposure."),
					"recommendations": stringSchema("Mitigation or further investigation."),
					"documents": {
						Type:        genai.TypeArray,
						Description: "File names of the documents the risk is based on.",
						Items:       &genai.Schema{Type: genai.TypeString},
					},
				}, "title", "category", "severity", "description"),
			},
			Handle: r.recordRisk,
		},
		{
			Declaration: &genai.FunctionDeclaration{
				Name:        ToolSetExecutiveSummary,
				Description: "Set the executive summary (markdown) of the deliverables.",
				Parameters: objectSchema(map[string]*genai.Schema{
					"summary": stringSchema("Executive summary in markdown."),
				}, "summary"),
			},
			Handle: func(_ context.Context, args map[string]any) (*ToolResult, error) {
				s, err := stringArg(args, "summary")
				if err != nil {
					return nil, err
				}
				r.mu.Lock()
				r.summary = strings.TrimSpace(s)
				r.mu.Unlock()
				return textResult("result", "Executive summary recorded"), nil
			},
		},
		{
			Declaration: &genai.FunctionDeclaration{
				Name:        ToolSetCategoryOverview,
				Description: "Set the overview paragraph (markdown) of one risk category.",
				Parameters: objectSchema(map[string]*genai.Schema{
					"category": {Type: genai.TypeString, Enum: categories, Description: "Risk category."},
					"overview": stringSchema("Category overview in markdown."),
				}, "category", "overview"),
			},
			Handle: func(_ context.Context, args map[string]any) (*ToolResult, error) {
				raw, err := stringArg(args, "category")
				if err != nil {
					return nil, err
				}
				cat, err := lawdit.ParseCategory(raw)
				if err != nil {
					return nil, err
				}
				overview, err := stringArg(args, "overview")
				if err != nil {
					return nil, err
				}
				r.mu.Lock()
				r.overviews[cat] = strings.TrimSpace(overview)
				r.mu.Unlock()
				return textResult("result", "Overview recorded for "+cat.Title()), nil
			},
		},
	}
}

func (r *Recorder) recordRisk(_ context.Context, args map[string]any) (*ToolResult, error) {
	title, err := stringArg(args, "title")
	if err != nil {
		return nil, err
	}
	rawCat, err := stringArg(args, "category")
	if err != nil {
		return nil, err
	}
	cat, err := lawdit.ParseCategory(rawCat)
	if err != nil {
		return nil, err
	}
	rawSev, err := stringArg(args, "severity")
	if err != nil {
		return nil, err
	}
	sev, err := lawdit.ParseSeverity(rawSev)
	if err != nil {
		return nil, err
	}

	risk := &lawdit.Risk{
		Title:           strings.TrimSpace(title),
		Category:        cat,
		Severity:        sev,
		Description:     optionalStringArg(args, "description"),
		Evidence:        optionalStringArg(args, "evidence"),
		Impact:          optionalStringArg(args, "impact"),
		Recommendations: optionalStringArg(args, "recommendations"),
		Documents:       stringSliceArg(args, "documents"),
	}
	if err := risk.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.risks = append(r.risks, risk)
	n := len(r.risks)
	r.mu.Unlock()

	return textResult("result", fmt.Sprintf("Risk %d recorded", n)), nil
}
