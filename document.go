package lawdit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Document represents an indexed data room document.
type Document struct {
	ID          string    `json:"id"`
	DataRoomID  string    `json:"dataRoomId"`
	SourceID    string    `json:"docId"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	TotalPages  int       `json:"totalPages"`
	Summary     string    `json:"documentSummary"`
	ContentHash string    `json:"contentHash"`
	Dir         string    `json:"-"`
	Pages       []*Page   `json:"pages"`
	IndexedAt   time.Time `json:"indexedAt"`
}

// Page holds the summary of a single rendered page.
type Page struct {
	Number    int    `json:"pageNum"`
	Summary   string `json:"summary"`
	ImagePath string `json:"-"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.DataRoomID == "" {
		return Errorf(EINVALID, "document data room ID required")
	}
	if d.SourceID == "" {
		return Errorf(EINVALID, "document source ID required")
	}
	if d.FileName == "" {
		return Errorf(EINVALID, "document file name required")
	}
	for i, p := range d.Pages {
		if p.Number != i+1 {
			return Errorf(EINVALID, "document page %d out of order (got %d)", i+1, p.Number)
		}
	}
	return nil
}

// DocumentFinder looks up indexed documents.
type DocumentFinder interface {
	// FindDocuments retrieves documents matching the filter, ordered by file name.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	DocumentFinder

	// CreateDocument stores a document with its pages. An existing document
	// with the same data room and source ID is replaced.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// DeleteDocument permanently removes a document and its pages.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// DeleteDocumentsByDataRoom removes all documents for a data room.
	DeleteDocumentsByDataRoom(ctx context.Context, dataRoomID string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID          *string `json:"id"`
	DataRoomID  *string `json:"dataRoomId"`
	SourceID    *string `json:"sourceId"`
	ContentHash *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// FindDocumentBySourceID returns the single document of a data room with the
// given source ID. Returns ENOTFOUND if there is none.
func FindDocumentBySourceID(ctx context.Context, finder DocumentFinder, dataRoomID, sourceID string) (*Document, error) {
	filter := DocumentFilter{SourceID: &sourceID, Limit: 1}
	if dataRoomID != "" {
		filter.DataRoomID = &dataRoomID
	}
	docs, err := finder.FindDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, Errorf(ENOTFOUND, "document %s not found", sourceID)
	}
	return docs[0], nil
}

// FormatDocumentSummary renders a document and its page summaries as the
// plain-text overview handed to analysis agents.
func FormatDocumentSummary(doc *Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Document: %s\n", doc.FileName)
	fmt.Fprintf(&sb, "Type: %s\n", doc.MimeType)
	fmt.Fprintf(&sb, "Pages: %d\n", doc.TotalPages)
	sb.WriteString("\nDocument Summary:\n")
	sb.WriteString(doc.Summary)
	sb.WriteString("\n\nPage-by-Page Summaries:\n")
	for _, p := range doc.Pages {
		fmt.Fprintf(&sb, "\nPage %d: %s\n", p.Number, p.Summary)
	}
	return sb.String()
}

// SelectPages returns the requested pages in request order. Page numbers
// that do not exist are returned separately; duplicates are dropped.
func SelectPages(doc *Document, numbers []int) (found []*Page, missing []int) {
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if seen[n] {
			continue
		}
		seen[n] = true
		if n < 1 || n > len(doc.Pages) {
			missing = append(missing, n)
			continue
		}
		found = append(found, doc.Pages[n-1])
	}
	return found, missing
}

// RecordWriter persists a document record next to its rendered pages so a
// working directory can be analyzed without the catalog.
type RecordWriter interface {
	WriteRecord(ctx context.Context, doc *Document) error
}
