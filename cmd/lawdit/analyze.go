package main

import (
	"fmt"
	"os"

	"github.com/lawdit/lawdit"
	lawditfs "github.com/lawdit/lawdit/fs"
)

// AnalysisDirName is the directory under the output directory that receives
// the agents' files.
const AnalysisDirName = "analysis"

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	room, err := findDataRoom(deps, c.Name)
	if err != nil {
		return err
	}

	focus, err := lawdit.ParseFocusAreas(c.Focus)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	var finder lawdit.DocumentFinder = deps.Documents
	if c.WorkingDir != "" {
		dir := roomWorkingDir(c.WorkingDir, room)
		store, err := lawditfs.LoadRecordStore(dir)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: loading records from %s: %v\n", dir, err)
			return err
		}
		finder = store
	}

	idx, err := c.loadIndex(deps, finder, room)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Analyzing %q (%d characters of index)\n", room.Name, len(idx))

	ws := lawditfs.NewWorkspace(c.OutputDir, AnalysisDirName)
	a, err := deps.Analyzer.Analyze(deps.Ctx, lawdit.AnalysisRequest{
		DataRoom:        room,
		Index:           idx,
		Documents:       finder,
		Workspace:       ws,
		Focus:           focus,
		MaxIterations:   c.MaxIterations,
		EnableWebSearch: c.EnableWebSearch,
	})
	if err != nil {
		_ = ws.Abort()
		fmt.Fprintf(deps.Stderr, "error: analysis failed: %s\n", lawdit.ErrorMessage(err))
		return err
	}
	if err := ws.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: saving analysis files: %v\n", err)
		return err
	}

	if err := deps.Analyses.CreateAnalysis(deps.Ctx, a); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Analysis %s: %d risks (%d critical, %d high) in %d model turns\n",
		a.ID, len(a.Risks), a.CountBySeverity(lawdit.SeverityCritical), a.CountBySeverity(lawdit.SeverityHigh), a.Iterations)
	fmt.Fprintf(deps.Stdout, "  Findings in %s\n", ws.Dir())

	paths, err := deps.Reporter.Generate(deps.Ctx, c.OutputDir, room, a)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: writing deliverables: %s\n", lawdit.ErrorMessage(err))
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(deps.Stdout, "  Wrote %s\n", p)
	}
	return nil
}

// loadIndex reads the index file when given, or formats the index from the
// documents.
func (c *AnalyzeCmd) loadIndex(deps *Dependencies, finder lawdit.DocumentFinder, room *lawdit.DataRoom) (string, error) {
	if c.Index != "" {
		data, err := os.ReadFile(c.Index)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: index file not found: %s. Run 'lawdit index %s' first.\n", c.Index, c.Name)
			return "", err
		}
		return string(data), nil
	}

	docs, err := finder.FindDocuments(deps.Ctx, lawdit.DocumentFilter{DataRoomID: &room.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return "", err
	}
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: data room %q has no indexed documents. Run 'lawdit index %s' first.\n", c.Name, c.Name)
		return "", lawdit.Errorf(lawdit.ENOTFOUND, "data room %q has no documents", c.Name)
	}
	return lawdit.FormatIndex(docs), nil
}
