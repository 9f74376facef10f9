package main

import (
	"fmt"

	"github.com/lawdit/lawdit"
	lawditfs "github.com/lawdit/lawdit/fs"
	"github.com/lawdit/lawdit/index"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	source := c.Source
	if c.FolderID != "" {
		source = "drive://" + c.FolderID
	}

	room, err := c.upsertDataRoom(deps, source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	loc, err := lawdit.ParseSourceURI(room.Source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}
	src, err := deps.OpenSource(deps.Ctx, loc, c.Credentials)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	ix := deps.Indexer
	ix.Source = src
	ix.WorkingDir = roomWorkingDir(c.WorkingDir, room)
	ix.Concurrency = c.Parallel
	ix.Force = c.Force

	fmt.Fprintf(deps.Stdout, "Indexing %q from %s\n", room.Name, loc)

	progress := func(event index.ProgressEvent) {
		switch event.Type {
		case index.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d files\n", event.Total)
		case index.ProgressDocumentStarted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.File.Name)
		case index.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "        %d pages summarized\n", event.Pages)
		case index.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] skip %s (%s)\n", event.Completed, event.Total, event.File.Name, event.File.MimeType)
		case index.ProgressDuplicate:
			fmt.Fprintf(deps.Stdout, "        duplicate of %s\n", event.DuplicateOf)
		case index.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "        failed: %v\n", event.Error)
		case index.ProgressFinished:
			// Summary printed after indexing completes
		}
	}

	result, err := ix.IndexDataRoom(deps.Ctx, room, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error indexing: %s\n", lawdit.ErrorMessage(err))
		return err
	}

	docs, err := roomDocuments(deps, room)
	if err != nil {
		return err
	}
	if err := lawditfs.WriteFileAtomic(c.Output, []byte(lawdit.FormatIndex(docs))); err != nil {
		fmt.Fprintf(deps.Stderr, "error: writing index: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Indexed %d, skipped %d, duplicates %d, failed %d (%d pages, %d page errors)\n",
		result.Indexed, result.Skipped, result.Duplicates, result.Failed, result.Pages, result.FailedPages)
	fmt.Fprintf(deps.Stdout, "Index of %d documents written to %s\n", len(docs), c.Output)
	return nil
}

// upsertDataRoom returns the named data room, creating it or updating its
// source as needed.
func (c *IndexCmd) upsertDataRoom(deps *Dependencies, source string) (*lawdit.DataRoom, error) {
	rooms, err := deps.DataRooms.FindDataRooms(deps.Ctx, lawdit.DataRoomFilter{Name: &c.Name})
	if err != nil {
		return nil, err
	}

	if len(rooms) == 0 {
		if source == "" {
			return nil, lawdit.Errorf(lawdit.EINVALID, "data room %q does not exist; pass --source or --folder-id to create it", c.Name)
		}
		room := &lawdit.DataRoom{Name: c.Name, Source: source}
		if err := deps.DataRooms.CreateDataRoom(deps.Ctx, room); err != nil {
			return nil, err
		}
		fmt.Fprintf(deps.Stdout, "Created data room %q (%s)\n", room.Name, room.ID)
		return room, nil
	}

	room := rooms[0]
	if source == "" || source == room.Source {
		return room, nil
	}
	return deps.DataRooms.UpdateDataRoom(deps.Ctx, room.ID, lawdit.DataRoomUpdate{Source: &source})
}
