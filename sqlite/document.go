package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lawdit/lawdit"
)

// Compile-time interface verification.
var _ lawdit.DocumentService = (*DocumentService)(nil)

// DocumentService implements lawdit.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// CreateDocument stores a document and its pages, replacing any document with
// the same data room and source ID.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *lawdit.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now().UTC()
	}
	if doc.TotalPages == 0 {
		doc.TotalPages = len(doc.Pages)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM documents WHERE data_room_id = ? AND source_id = ?",
		doc.DataRoomID, doc.SourceID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, data_room_id, source_id, file_name, mime_type, total_pages, summary, content_hash, dir, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.DataRoomID, doc.SourceID, doc.FileName, doc.MimeType, doc.TotalPages,
		doc.Summary, doc.ContentHash, doc.Dir, formatTime(doc.IndexedAt)); err != nil {
		return err
	}

	for _, p := range doc.Pages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (document_id, number, summary, image_path)
			VALUES (?, ?, ?, ?)
		`, doc.ID, p.Number, p.Summary, p.ImagePath); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindDocumentByID retrieves a document with its pages.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*lawdit.Document, error) {
	docs, err := s.FindDocuments(ctx, lawdit.DocumentFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, lawdit.Errorf(lawdit.ENOTFOUND, "document not found")
	}
	return docs[0], nil
}

// FindDocuments retrieves documents matching the filter, ordered by file name.
func (s *DocumentService) FindDocuments(ctx context.Context, filter lawdit.DocumentFilter) ([]*lawdit.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, data_room_id, source_id, file_name, mime_type, total_pages, summary, content_hash, dir, indexed_at
		FROM documents WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DataRoomID != nil {
		query.WriteString(" AND data_room_id = ?")
		args = append(args, *filter.DataRoomID)
	}
	if filter.SourceID != nil {
		query.WriteString(" AND source_id = ?")
		args = append(args, *filter.SourceID)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY file_name, source_id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	docs, err := s.queryDocuments(ctx, query.String(), args)
	if err != nil {
		return nil, err
	}

	// Pages are loaded after the document rows are closed; the pool has a
	// single connection.
	for _, doc := range docs {
		if doc.Pages, err = s.findPages(ctx, doc.ID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// DeleteDocument permanently removes a document and its pages.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return lawdit.Errorf(lawdit.ENOTFOUND, "document not found")
	}

	return nil
}

// DeleteDocumentsByDataRoom removes all documents for a data room.
func (s *DocumentService) DeleteDocumentsByDataRoom(ctx context.Context, dataRoomID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE data_room_id = ?", dataRoomID)
	return err
}

func (s *DocumentService) queryDocuments(ctx context.Context, query string, args []any) ([]*lawdit.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*lawdit.Document
	for rows.Next() {
		var doc lawdit.Document
		var indexedAt string

		if err := rows.Scan(&doc.ID, &doc.DataRoomID, &doc.SourceID, &doc.FileName, &doc.MimeType,
			&doc.TotalPages, &doc.Summary, &doc.ContentHash, &doc.Dir, &indexedAt); err != nil {
			return nil, err
		}

		if doc.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at"); err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

func (s *DocumentService) findPages(ctx context.Context, documentID string) ([]*lawdit.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, summary, image_path
		FROM pages
		WHERE document_id = ?
		ORDER BY number
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*lawdit.Page
	for rows.Next() {
		var p lawdit.Page
		if err := rows.Scan(&p.Number, &p.Summary, &p.ImagePath); err != nil {
			return nil, err
		}
		pages = append(pages, &p)
	}

	return pages, rows.Err()
}
