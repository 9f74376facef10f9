package lawdit

import (
	"fmt"
	"strings"
)

// IndexTitle is the heading of every formatted data room index.
const IndexTitle = "# Data Room Index"

// FormatIndex renders documents as the data room index handed to the
// analysis agents: one bullet per document with its ID, file name and
// document-level summary.
func FormatIndex(docs []*Document) string {
	var sb strings.Builder
	sb.WriteString(IndexTitle)
	sb.WriteString("\n\n")
	for _, doc := range docs {
		fmt.Fprintf(&sb, "- **%s**: %s\n", doc.SourceID, doc.FileName)
		fmt.Fprintf(&sb, "  Summary: %s\n\n", oneLine(doc.Summary))
	}
	return sb.String()
}

// oneLine collapses line breaks so a summary stays inside its bullet.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
