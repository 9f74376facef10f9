package lawdit

import (
	"context"
	"io"
)

// MIME types understood by the indexer.
const (
	MimePDF          = "application/pdf"
	MimeGoogleDoc    = "application/vnd.google-apps.document"
	MimeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeOctetStream  = "application/octet-stream"
)

// SourceFile describes a file listed from a data room source.
type SourceFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// NeedsExport reports whether the file must be exported to PDF by the
// source rather than downloaded as-is.
func NeedsExport(mimeType string) bool {
	switch mimeType {
	case MimeGoogleDoc, MimeGoogleSheet, MimeGoogleSlides:
		return true
	}
	return false
}

// IsSupportedMimeType reports whether files of this type can be indexed.
func IsSupportedMimeType(mimeType string) bool {
	return mimeType == MimePDF || NeedsExport(mimeType)
}

// Source lists and downloads the files of a data room.
// Implementations hide Drive, S3 and local filesystem differences.
type Source interface {
	// ListFiles returns every file in the data room, in a stable order.
	ListFiles(ctx context.Context) ([]*SourceFile, error)

	// DownloadPDF writes the file as PDF to w, exporting it first if the
	// source stores it in another format.
	// Returns EINVALID if the file type is not supported.
	DownloadPDF(ctx context.Context, file *SourceFile, w io.Writer) error
}
