package main

import (
	"fmt"

	"github.com/lawdit/lawdit"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	room, err := findDataRoom(deps, c.Name)
	if err != nil {
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, room.ID, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
