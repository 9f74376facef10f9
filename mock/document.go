package mock

import (
	"context"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.DocumentService = (*DocumentService)(nil)
	_ lawdit.DocumentFinder  = (*DocumentFinder)(nil)
	_ lawdit.RecordWriter    = (*RecordWriter)(nil)
)

// DocumentService is a mock implementation of lawdit.DocumentService.
type DocumentService struct {
	CreateDocumentFn            func(ctx context.Context, doc *lawdit.Document) error
	FindDocumentByIDFn          func(ctx context.Context, id string) (*lawdit.Document, error)
	FindDocumentsFn             func(ctx context.Context, filter lawdit.DocumentFilter) ([]*lawdit.Document, error)
	DeleteDocumentFn            func(ctx context.Context, id string) error
	DeleteDocumentsByDataRoomFn func(ctx context.Context, dataRoomID string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *lawdit.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*lawdit.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter lawdit.DocumentFilter) ([]*lawdit.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}

func (s *DocumentService) DeleteDocumentsByDataRoom(ctx context.Context, dataRoomID string) error {
	return s.DeleteDocumentsByDataRoomFn(ctx, dataRoomID)
}

// DocumentFinder is a mock implementation of lawdit.DocumentFinder.
type DocumentFinder struct {
	FindDocumentsFn func(ctx context.Context, filter lawdit.DocumentFilter) ([]*lawdit.Document, error)
}

func (f *DocumentFinder) FindDocuments(ctx context.Context, filter lawdit.DocumentFilter) ([]*lawdit.Document, error) {
	return f.FindDocumentsFn(ctx, filter)
}

// RecordWriter is a mock implementation of lawdit.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, doc *lawdit.Document) error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, doc *lawdit.Document) error {
	return w.WriteRecordFn(ctx, doc)
}
