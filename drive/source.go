// Package drive provides a data room source backed by a Google Drive folder.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lawdit/lawdit"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// PageSize is the number of files requested per list call.
const PageSize = 1000

const listFields googleapi.Field = "nextPageToken, files(id, name, mimeType, size)"

// queryEscaper escapes a value placed inside a quoted Drive query string.
var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Ensure Source implements lawdit.Source at compile time.
var _ lawdit.Source = (*Source)(nil)

// Source lists the files directly inside one Drive folder.
type Source struct {
	service  *gdrive.Service
	folderID string
}

// NewService creates a read-only Drive service from a service account
// credentials file.
func NewService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*gdrive.Service, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(gdrive.DriveReadonlyScope))

	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}

// NewSource creates a Source for the given folder.
func NewSource(service *gdrive.Service, folderID string) *Source {
	return &Source{service: service, folderID: folderID}
}

// ListFiles returns every non-trashed file in the folder.
func (s *Source) ListFiles(ctx context.Context) ([]*lawdit.SourceFile, error) {
	if s.folderID == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "drive folder ID required")
	}

	q := fmt.Sprintf("'%s' in parents and trashed=false", queryEscaper.Replace(s.folderID))
	call := s.service.Files.List().
		Q(q).
		PageSize(PageSize).
		Fields(listFields).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)

	var files []*lawdit.SourceFile
	err := call.Pages(ctx, func(page *gdrive.FileList) error {
		for _, f := range page.Files {
			files = append(files, &lawdit.SourceFile{
				ID:       f.Id,
				Name:     f.Name,
				MimeType: f.MimeType,
				Size:     f.Size,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", s.folderID, err)
	}
	return files, nil
}

// DownloadPDF downloads a PDF or exports a Workspace document as PDF.
func (s *Source) DownloadPDF(ctx context.Context, file *lawdit.SourceFile, w io.Writer) error {
	if !lawdit.IsSupportedMimeType(file.MimeType) {
		return lawdit.Errorf(lawdit.EINVALID, "unsupported file type %s for %s", file.MimeType, file.Name)
	}

	var resp *http.Response
	var err error
	if lawdit.NeedsExport(file.MimeType) {
		resp, err = s.service.Files.Export(file.ID, lawdit.MimePDF).Context(ctx).Download()
	} else {
		resp, err = s.service.Files.Get(file.ID).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return lawdit.Errorf(lawdit.ENOTFOUND, "drive file %s not found", file.ID)
		}
		return fmt.Errorf("download %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", file.Name, err)
	}
	return nil
}
