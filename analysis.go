package lawdit

import (
	"context"
	"sort"
	"strings"
	"time"
)

// SynthesisPath is the workspace file holding the coordinator's synthesis.
const SynthesisPath = "/analysis/synthesis/comprehensive_risk_assessment.md"

// Analysis is the outcome of a legal risk analysis over a data room.
type Analysis struct {
	ID               string              `json:"id"`
	DataRoomID       string              `json:"dataRoomId"`
	Focus            []FocusArea         `json:"focus,omitempty"`
	ExecutiveSummary string              `json:"executiveSummary"`
	Overviews        map[Category]string `json:"overviews,omitempty"`
	Synthesis        string              `json:"synthesis"`
	Findings         []*Finding          `json:"findings,omitempty"`
	Risks            []*Risk             `json:"risks"`
	DocumentCount    int                 `json:"documentCount"`
	Iterations       int                 `json:"iterations"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// Finding is a markdown file written by an agent during analysis.
type Finding struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Validate returns an error if the analysis contains invalid fields.
func (a *Analysis) Validate() error {
	if a.DataRoomID == "" {
		return Errorf(EINVALID, "analysis data room ID required")
	}
	for _, r := range a.Risks {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CategoryRisks is the set of risks of one category.
type CategoryRisks struct {
	Category Category
	Overview string
	Risks    []*Risk
}

// RisksByCategory groups risks in report category order. Within a category
// risks are sorted by severity, most serious first, then by title.
// Categories without risks are omitted.
func (a *Analysis) RisksByCategory() []CategoryRisks {
	grouped := make(map[Category][]*Risk)
	for _, r := range a.Risks {
		grouped[r.Category] = append(grouped[r.Category], r)
	}

	var out []CategoryRisks
	for _, c := range Categories {
		risks := grouped[c]
		if len(risks) == 0 {
			continue
		}
		sorted := make([]*Risk, len(risks))
		copy(sorted, risks)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Severity.Rank() != sorted[j].Severity.Rank() {
				return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
			}
			return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
		})
		out = append(out, CategoryRisks{Category: c, Overview: a.Overviews[c], Risks: sorted})
	}
	return out
}

// CountBySeverity returns the number of risks with the given severity.
func (a *Analysis) CountBySeverity(sev Severity) int {
	var n int
	for _, r := range a.Risks {
		if r.Severity == sev {
			n++
		}
	}
	return n
}

// Categories returns the categories that have at least one risk, in report
// order.
func (a *Analysis) Categories() []Category {
	present := make(map[Category]bool)
	for _, r := range a.Risks {
		present[r.Category] = true
	}
	var out []Category
	for _, c := range Categories {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

// AnalysisService represents a service for managing analyses.
type AnalysisService interface {
	// CreateAnalysis stores an analysis with its risks and findings.
	CreateAnalysis(ctx context.Context, a *Analysis) error

	// FindAnalysisByID retrieves an analysis by ID.
	// Returns ENOTFOUND if analysis does not exist.
	FindAnalysisByID(ctx context.Context, id string) (*Analysis, error)

	// FindAnalyses retrieves analyses matching the filter, newest first.
	// Risks and findings are not loaded.
	FindAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error)

	// DeleteAnalysis permanently removes an analysis.
	// Returns ENOTFOUND if analysis does not exist.
	DeleteAnalysis(ctx context.Context, id string) error
}

// AnalysisFilter represents a filter for FindAnalyses.
type AnalysisFilter struct {
	ID         *string `json:"id"`
	DataRoomID *string `json:"dataRoomId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// AnalysisRequest describes an analysis run.
type AnalysisRequest struct {
	DataRoom *DataRoom
	// Index is the formatted data room index.
	Index string
	// Documents resolves document IDs referenced by the index.
	Documents DocumentFinder
	// Workspace receives files written by the agents.
	Workspace       Workspace
	Focus           []FocusArea
	MaxIterations   int
	EnableWebSearch bool
}

// Validate returns an error if the request cannot be run.
func (r *AnalysisRequest) Validate() error {
	if r.DataRoom == nil {
		return Errorf(EINVALID, "data room required")
	}
	if strings.TrimSpace(r.Index) == "" {
		return Errorf(EINVALID, "data room index is empty")
	}
	if r.Documents == nil {
		return Errorf(EINVALID, "document finder required")
	}
	if r.Workspace == nil {
		return Errorf(EINVALID, "workspace required")
	}
	return nil
}

// Analyzer runs a legal risk analysis over a data room index.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error)
}

// Workspace is the scratch filesystem shared by analysis agents.
// Paths are slash-separated and absolute (e.g. /analysis/contracts/x.md).
type Workspace interface {
	WriteFile(ctx context.Context, path, content string) error
	// ReadFile returns ENOTFOUND if the file does not exist.
	ReadFile(ctx context.Context, path string) (string, error)
	// ListFiles returns the sorted paths under a directory prefix.
	ListFiles(ctx context.Context, dir string) ([]string, error)
}
