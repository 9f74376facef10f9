package mock

import (
	"context"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.AnalysisService = (*AnalysisService)(nil)
	_ lawdit.Analyzer        = (*Analyzer)(nil)
	_ lawdit.Workspace       = (*Workspace)(nil)
)

// AnalysisService is a mock implementation of lawdit.AnalysisService.
type AnalysisService struct {
	CreateAnalysisFn   func(ctx context.Context, a *lawdit.Analysis) error
	FindAnalysisByIDFn func(ctx context.Context, id string) (*lawdit.Analysis, error)
	FindAnalysesFn     func(ctx context.Context, filter lawdit.AnalysisFilter) ([]*lawdit.Analysis, error)
	DeleteAnalysisFn   func(ctx context.Context, id string) error
}

func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *lawdit.Analysis) error {
	return s.CreateAnalysisFn(ctx, a)
}

func (s *AnalysisService) FindAnalysisByID(ctx context.Context, id string) (*lawdit.Analysis, error) {
	return s.FindAnalysisByIDFn(ctx, id)
}

func (s *AnalysisService) FindAnalyses(ctx context.Context, filter lawdit.AnalysisFilter) ([]*lawdit.Analysis, error) {
	return s.FindAnalysesFn(ctx, filter)
}

func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id string) error {
	return s.DeleteAnalysisFn(ctx, id)
}

// Analyzer is a mock implementation of lawdit.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, req lawdit.AnalysisRequest) (*lawdit.Analysis, error)
}

func (a *Analyzer) Analyze(ctx context.Context, req lawdit.AnalysisRequest) (*lawdit.Analysis, error) {
	return a.AnalyzeFn(ctx, req)
}

// Workspace is a mock implementation of lawdit.Workspace.
type Workspace struct {
	WriteFileFn func(ctx context.Context, path, content string) error
	ReadFileFn  func(ctx context.Context, path string) (string, error)
	ListFilesFn func(ctx context.Context, dir string) ([]string, error)
}

func (w *Workspace) WriteFile(ctx context.Context, path, content string) error {
	return w.WriteFileFn(ctx, path, content)
}

func (w *Workspace) ReadFile(ctx context.Context, path string) (string, error) {
	return w.ReadFileFn(ctx, path)
}

func (w *Workspace) ListFiles(ctx context.Context, dir string) ([]string, error) {
	return w.ListFilesFn(ctx, dir)
}
