// Package local provides a data room source backed by a local directory.
package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawdit/lawdit"
)

// Ensure Source implements lawdit.Source at compile time.
var _ lawdit.Source = (*Source)(nil)

// Source lists files under a root directory. File IDs are slash paths
// relative to the root.
type Source struct {
	root string
}

// NewSource creates a Source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{root: dir}
}

// ListFiles walks the root directory, skipping hidden files and directories.
func (s *Source) ListFiles(ctx context.Context) ([]*lawdit.SourceFile, error) {
	info, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, lawdit.Errorf(lawdit.ENOTFOUND, "directory %s not found", s.root)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, lawdit.Errorf(lawdit.EINVALID, "%s is not a directory", s.root)
	}

	var files []*lawdit.SourceFile
	err = filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != s.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, &lawdit.SourceFile{
			ID:       filepath.ToSlash(rel),
			Name:     d.Name(),
			MimeType: mimeType(d.Name()),
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// DownloadPDF copies a PDF file to w.
func (s *Source) DownloadPDF(ctx context.Context, file *lawdit.SourceFile, w io.Writer) error {
	if file.MimeType != lawdit.MimePDF {
		return lawdit.Errorf(lawdit.EINVALID, "unsupported file type %s for %s", file.MimeType, file.Name)
	}

	clean := path.Clean("/" + file.ID)
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
	if errors.Is(err, fs.ErrNotExist) {
		return lawdit.Errorf(lawdit.ENOTFOUND, "file %s not found", file.ID)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func mimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".pdf" {
		return lawdit.MimePDF
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return lawdit.MimeOctetStream
}
