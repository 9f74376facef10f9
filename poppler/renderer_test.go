package poppler_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/poppler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePdftoppm writes a script that mimics pdftoppm -singlefile by creating
// <prefix>.png containing the requested page and resolution.
func fakePdftoppm(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "pdftoppm")
	body := `#!/bin/sh
# args: -png -r DPI -f N -l N -singlefile PDF PREFIX
echo "page=$5 dpi=$3" > "${10}.png"
`
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))
	return script
}

func fixedCount(n int) func(context.Context, string) (int, error) {
	return func(context.Context, string) (int, error) { return n, nil }
}

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	t.Run("defaults to 200 dpi", func(t *testing.T) {
		t.Parallel()

		r, err := poppler.NewRenderer(0, 4)

		require.NoError(t, err)
		assert.Equal(t, 200, r.DPI)
	})

	t.Run("rejects dpi outside 72-600", func(t *testing.T) {
		t.Parallel()

		_, err := poppler.NewRenderer(71, 1)
		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))

		_, err = poppler.NewRenderer(601, 1)
		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("renders every page in order", func(t *testing.T) {
		t.Parallel()

		outDir := t.TempDir()
		r := &poppler.Renderer{DPI: 150, Concurrency: 3, Command: fakePdftoppm(t), CountPages: fixedCount(4)}

		paths, err := r.Render(context.Background(), "in.pdf", outDir)

		require.NoError(t, err)
		require.Len(t, paths, 4)
		for i, p := range paths {
			assert.Equal(t, filepath.Join(outDir, lawdit.PageImageName(i+1)), p)
		}
		data, err := os.ReadFile(paths[2])
		require.NoError(t, err)
		assert.Equal(t, "page=3 dpi=150\n", string(data))
	})

	t.Run("fails for documents without pages", func(t *testing.T) {
		t.Parallel()

		r := &poppler.Renderer{Command: fakePdftoppm(t), CountPages: fixedCount(0)}

		_, err := r.Render(context.Background(), "in.pdf", t.TempDir())

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})

	t.Run("reports command failures", func(t *testing.T) {
		t.Parallel()

		r := &poppler.Renderer{Command: "/nonexistent/pdftoppm", CountPages: fixedCount(1)}

		_, err := r.Render(context.Background(), "in.pdf", t.TempDir())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "render page 1")
	})

	t.Run("rejects files that are not PDFs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "fake.pdf")
		require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0644))
		r := &poppler.Renderer{Command: fakePdftoppm(t)}

		_, err := r.Render(context.Background(), path, dir)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "count pages")
	})
}
