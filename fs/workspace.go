package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawdit/lawdit"
)

// Ensure Workspace implements lawdit.Workspace at compile time.
var _ lawdit.Workspace = (*Workspace)(nil)

// Workspace implements lawdit.Workspace with atomic update semantics.
// Files are written to baseDir/name.tmp and moved to baseDir/name on Commit.
type Workspace struct {
	baseDir string
	name    string
}

// NewWorkspace creates a new Workspace.
func NewWorkspace(baseDir, name string) *Workspace {
	return &Workspace{
		baseDir: baseDir,
		name:    name,
	}
}

func (w *Workspace) tempDir() string {
	return filepath.Join(w.baseDir, w.name+".tmp")
}

// Dir returns the directory the workspace is committed to.
func (w *Workspace) Dir() string {
	return filepath.Join(w.baseDir, w.name)
}

// resolve maps a workspace path to a file under the staging directory.
// Paths escaping the workspace root are rejected.
func (w *Workspace) resolve(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", lawdit.Errorf(lawdit.EINVALID, "path required")
	}
	if strings.Contains(p, "\\") {
		return "", lawdit.Errorf(lawdit.EINVALID, "invalid path %q", p)
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", lawdit.Errorf(lawdit.EINVALID, "path %q escapes the workspace", p)
		}
	}
	clean := path.Clean("/" + p)
	return filepath.Join(w.tempDir(), filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// WriteFile writes content to the workspace path, creating parent directories.
func (w *Workspace) WriteFile(ctx context.Context, p, content string) error {
	full, err := w.resolve(p)
	if err != nil {
		return err
	}
	if full == w.tempDir() {
		return lawdit.Errorf(lawdit.EINVALID, "path %q is a directory", p)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0644)
}

// ReadFile returns the content of a workspace file.
func (w *Workspace) ReadFile(ctx context.Context, p string) (string, error) {
	full, err := w.resolve(p)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", lawdit.Errorf(lawdit.ENOTFOUND, "file %s not found", p)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ListFiles returns the sorted slash paths of every file under dir.
// A missing directory yields an empty list.
func (w *Workspace) ListFiles(ctx context.Context, dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "/"
	}
	full, err := w.resolve(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(full, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.tempDir(), p)
		if err != nil {
			return err
		}
		files = append(files, "/"+filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Commit replaces the committed directory with the staged files.
func (w *Workspace) Commit() error {
	if err := os.MkdirAll(w.tempDir(), 0755); err != nil {
		return err
	}

	if err := os.RemoveAll(w.Dir()); err != nil {
		return err
	}

	return os.Rename(w.tempDir(), w.Dir())
}

// Abort discards the staged files.
func (w *Workspace) Abort() error {
	return os.RemoveAll(w.tempDir())
}
