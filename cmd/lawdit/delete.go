package main

import (
	"fmt"

	"github.com/lawdit/lawdit"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return lawdit.Errorf(lawdit.EINVALID, "use --force to confirm deletion")
	}

	room, err := findDataRoom(deps, c.Name)
	if err != nil {
		return err
	}

	if err := deps.DataRooms.DeleteDataRoom(deps.Ctx, room.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted data room %q\n", room.Name)
	return nil
}
