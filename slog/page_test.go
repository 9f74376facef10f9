package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/mock"
	lawditslog "github.com/lawdit/lawdit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRenderer_Render(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.PageRenderer{
		RenderFn: func(context.Context, string, string) ([]string, error) {
			return []string{"p1.png", "p2.png", "p3.png"}, nil
		},
	}

	paths, err := lawditslog.NewLoggingRenderer(inner, logger).Render(context.Background(), "/tmp/lease.pdf", "/tmp/out")

	require.NoError(t, err)
	assert.Len(t, paths, 3)
	assert.Contains(t, buf.String(), "pdf=/tmp/lease.pdf")
	assert.Contains(t, buf.String(), "pages=3")
}

func TestLoggingSummarizer(t *testing.T) {
	t.Parallel()

	inner := &mock.Summarizer{
		SummarizePageFn: func(context.Context, []byte, int) (string, error) {
			return "Signature page.", nil
		},
		SummarizeDocumentFn: func(context.Context, string, []*lawdit.Page) (string, error) {
			return "A commercial lease.", nil
		},
	}

	t.Run("logs page summaries at debug level", func(t *testing.T) {
		t.Parallel()

		var info, debug bytes.Buffer
		quiet := lawditslog.NewLoggingSummarizer(inner, slog.New(slog.NewTextHandler(&info, nil)))
		verbose := lawditslog.NewLoggingSummarizer(inner, slog.New(slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug})))

		_, err := quiet.SummarizePage(context.Background(), []byte("png"), 4)
		require.NoError(t, err)
		summary, err := verbose.SummarizePage(context.Background(), []byte("png"), 4)
		require.NoError(t, err)

		assert.Equal(t, "Signature page.", summary)
		assert.Empty(t, info.String())
		assert.Contains(t, debug.String(), "page=4")
		assert.Contains(t, debug.String(), "imageBytes=3")
	})

	t.Run("logs document summaries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := lawditslog.NewLoggingSummarizer(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		summary, err := s.SummarizeDocument(context.Background(), "lease.pdf", []*lawdit.Page{{Number: 1}, {Number: 2}})

		require.NoError(t, err)
		assert.Equal(t, "A commercial lease.", summary)
		assert.Contains(t, buf.String(), `msg="summarize document"`)
		assert.Contains(t, buf.String(), "file=lease.pdf")
		assert.Contains(t, buf.String(), "pages=2")
	})
}
