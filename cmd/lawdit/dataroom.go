package main

import (
	"fmt"
	"path/filepath"

	"github.com/lawdit/lawdit"
)

// findDataRoom looks a data room up by name, reporting a missing room with
// a hint on stderr.
func findDataRoom(deps *Dependencies, name string) (*lawdit.DataRoom, error) {
	rooms, err := deps.DataRooms.FindDataRooms(deps.Ctx, lawdit.DataRoomFilter{Name: &name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return nil, err
	}
	if len(rooms) == 0 {
		fmt.Fprintf(deps.Stderr, "error: data room %q not found. Use 'lawdit list' to see available data rooms.\n", name)
		return nil, lawdit.Errorf(lawdit.ENOTFOUND, "data room %q not found", name)
	}
	return rooms[0], nil
}

// roomDocuments returns the catalog documents of a room, ordered by file name.
func roomDocuments(deps *Dependencies, room *lawdit.DataRoom) ([]*lawdit.Document, error) {
	docs, err := deps.Documents.FindDocuments(deps.Ctx, lawdit.DocumentFilter{DataRoomID: &room.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return nil, err
	}
	return docs, nil
}

// roomWorkingDir returns the directory under base that holds the document
// directories of a room.
func roomWorkingDir(base string, room *lawdit.DataRoom) string {
	return filepath.Join(base, lawdit.Slugify(room.Name))
}
