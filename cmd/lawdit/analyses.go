package main

import (
	"fmt"
	"strings"

	"github.com/lawdit/lawdit"
)

// Run executes the analyses command.
func (c *AnalysesCmd) Run(deps *Dependencies) error {
	room, err := findDataRoom(deps, c.Name)
	if err != nil {
		return err
	}

	analyses, err := deps.Analyses.FindAnalyses(deps.Ctx, lawdit.AnalysisFilter{DataRoomID: &room.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	if len(analyses) == 0 {
		fmt.Fprintf(deps.Stdout, "No analyses for %s. Use 'lawdit analyze %s' to run one.\n", c.Name, c.Name)
		return nil
	}

	for _, a := range analyses {
		focus := "all"
		if len(a.Focus) > 0 {
			areas := make([]string, len(a.Focus))
			for i, f := range a.Focus {
				areas[i] = string(f)
			}
			focus = strings.Join(areas, ",")
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  focus=%s  documents=%d\n",
			a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"), focus, a.DocumentCount)
	}

	return nil
}
