package main

import (
	"fmt"

	"github.com/lawdit/lawdit"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	rooms, err := deps.DataRooms.FindDataRooms(deps.Ctx, lawdit.DataRoomFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	if len(rooms) == 0 {
		fmt.Fprintln(deps.Stdout, "No data rooms found. Use 'lawdit index' to create one.")
		return nil
	}

	for _, r := range rooms {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", r.ID, r.Name, r.Source)
	}

	return nil
}
