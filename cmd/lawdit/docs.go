package main

import (
	"fmt"

	"github.com/lawdit/lawdit"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	room, err := findDataRoom(deps, c.Name)
	if err != nil {
		return err
	}

	docs, err := roomDocuments(deps, room)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: data room %q has no documents. Run 'lawdit index %s' to index it.\n", c.Name, c.Name)
		return lawdit.Errorf(lawdit.ENOTFOUND, "data room %q has no documents", c.Name)
	}

	if c.Full {
		for _, doc := range docs {
			fmt.Fprintf(deps.Stdout, "[%s]\n%s\n", doc.ID, lawdit.FormatDocumentSummary(doc))
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", c.Name, len(docs))
	for i, doc := range docs {
		fmt.Fprintf(deps.Stdout, "  %d. %s (%d pages)\n     %s\n", i+1, doc.FileName, doc.TotalPages, doc.ID)
	}

	return nil
}
