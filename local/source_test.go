package local_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestSource_ListFiles(t *testing.T) {
	t.Parallel()

	t.Run("lists files with relative IDs", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "contracts/MSA.PDF", "%PDF")
		writeFile(t, root, "bylaws.pdf", "%PDF-1.7")
		writeFile(t, root, "notes.txt", "x")
		writeFile(t, root, ".hidden/secret.pdf", "%PDF")
		writeFile(t, root, ".DS_Store", "x")

		files, err := local.NewSource(root).ListFiles(context.Background())

		require.NoError(t, err)
		require.Len(t, files, 3)
		assert.Equal(t, "bylaws.pdf", files[0].ID)
		assert.Equal(t, int64(8), files[0].Size)
		assert.Equal(t, "contracts/MSA.PDF", files[1].ID)
		assert.Equal(t, "MSA.PDF", files[1].Name)
		assert.Equal(t, lawdit.MimePDF, files[1].MimeType)
		assert.NotEqual(t, lawdit.MimePDF, files[2].MimeType)
	})

	t.Run("returns ENOTFOUND for missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := local.NewSource(filepath.Join(t.TempDir(), "missing")).ListFiles(context.Background())

		assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
	})
}

func TestSource_DownloadPDF(t *testing.T) {
	t.Parallel()

	t.Run("copies file content", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "a/b.pdf", "%PDF-content")
		var buf bytes.Buffer

		err := local.NewSource(root).DownloadPDF(context.Background(),
			&lawdit.SourceFile{ID: "a/b.pdf", Name: "b.pdf", MimeType: lawdit.MimePDF}, &buf)

		require.NoError(t, err)
		assert.Equal(t, "%PDF-content", buf.String())
	})

	t.Run("rejects non-PDF files", func(t *testing.T) {
		t.Parallel()

		err := local.NewSource(t.TempDir()).DownloadPDF(context.Background(),
			&lawdit.SourceFile{ID: "x.txt", MimeType: "text/plain"}, &bytes.Buffer{})

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})

	t.Run("stays inside the root", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		writeFile(t, base, "outside.pdf", "secret")
		root := filepath.Join(base, "room")
		require.NoError(t, os.MkdirAll(root, 0755))

		err := local.NewSource(root).DownloadPDF(context.Background(),
			&lawdit.SourceFile{ID: "../outside.pdf", MimeType: lawdit.MimePDF}, &bytes.Buffer{})

		assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
	})
}
