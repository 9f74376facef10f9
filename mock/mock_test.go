package mock_test

import (
	"context"
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWriter_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteRecordFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *lawdit.Document
		w := &mock.RecordWriter{
			WriteRecordFn: func(_ context.Context, doc *lawdit.Document) error {
				calledWith = doc
				return nil
			},
		}

		doc := &lawdit.Document{SourceID: "DOC-1", FileName: "MSA.pdf"}

		err := w.WriteRecord(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, doc, calledWith)
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("is a no-op without CloseFn", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{}

		assert.NoError(t, f.Close())
	})
}
