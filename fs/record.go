package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lawdit/lawdit"
)

// RecordFileName is the name of the per-document record file.
const RecordFileName = "document_record.json"

// Ensure RecordWriter implements lawdit.RecordWriter at compile time.
var _ lawdit.RecordWriter = (*RecordWriter)(nil)

// RecordWriter writes document records into each document's directory.
type RecordWriter struct{}

// NewRecordWriter creates a new RecordWriter.
func NewRecordWriter() *RecordWriter {
	return &RecordWriter{}
}

// WriteRecord writes doc as JSON to <doc.Dir>/document_record.json.
func (w *RecordWriter) WriteRecord(ctx context.Context, doc *lawdit.Document) error {
	if doc.Dir == "" {
		return lawdit.Errorf(lawdit.EINVALID, "document %s has no directory", doc.SourceID)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return WriteFileAtomic(filepath.Join(doc.Dir, RecordFileName), data)
}

// Ensure RecordStore implements lawdit.DocumentFinder at compile time.
var _ lawdit.DocumentFinder = (*RecordStore)(nil)

// RecordStore serves document records found in a working directory. It lets
// an analysis run against a working directory without the catalog.
type RecordStore struct {
	docs []*lawdit.Document
}

// LoadRecordStore reads every <root>/*/document_record.json. Records that
// cannot be decoded are reported as an error naming the file.
func LoadRecordStore(root string) (*RecordStore, error) {
	paths, err := filepath.Glob(filepath.Join(root, "*", RecordFileName))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	s := &RecordStore{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var doc lawdit.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		doc.Dir = filepath.Dir(path)
		for _, p := range doc.Pages {
			p.ImagePath = filepath.Join(doc.Dir, lawdit.PageImageName(p.Number))
		}
		s.docs = append(s.docs, &doc)
	}

	sort.SliceStable(s.docs, func(i, j int) bool {
		return s.docs[i].FileName < s.docs[j].FileName
	})
	return s, nil
}

// FindDocuments returns records matching the filter, ordered by file name.
func (s *RecordStore) FindDocuments(ctx context.Context, filter lawdit.DocumentFilter) ([]*lawdit.Document, error) {
	var out []*lawdit.Document
	for _, doc := range s.docs {
		if filter.ID != nil && doc.ID != *filter.ID {
			continue
		}
		if filter.DataRoomID != nil && doc.DataRoomID != *filter.DataRoomID {
			continue
		}
		if filter.SourceID != nil && doc.SourceID != *filter.SourceID {
			continue
		}
		if filter.ContentHash != nil && doc.ContentHash != *filter.ContentHash {
			continue
		}
		out = append(out, doc)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Len returns the number of loaded records.
func (s *RecordStore) Len() int {
	return len(s.docs)
}
