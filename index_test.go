package lawdit_test

import (
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/stretchr/testify/assert"
)

func TestFormatIndex(t *testing.T) {
	t.Parallel()

	t.Run("lists documents with summaries", func(t *testing.T) {
		t.Parallel()

		docs := []*lawdit.Document{
			{SourceID: "DOC-1", FileName: "MSA.pdf", Summary: "Master services agreement."},
			{SourceID: "DOC-2", FileName: "Bylaws.pdf", Summary: "Corporate bylaws."},
		}

		out := lawdit.FormatIndex(docs)

		expected := "# Data Room Index\n\n" +
			"- **DOC-1**: MSA.pdf\n  Summary: Master services agreement.\n\n" +
			"- **DOC-2**: Bylaws.pdf\n  Summary: Corporate bylaws.\n\n"
		assert.Equal(t, expected, out)
	})

	t.Run("keeps multi-line summaries inside the bullet", func(t *testing.T) {
		t.Parallel()

		docs := []*lawdit.Document{
			{SourceID: "DOC-1", FileName: "Lease.pdf", Summary: "Lease.\n\nTerm: 5 years."},
		}

		out := lawdit.FormatIndex(docs)

		assert.Contains(t, out, "  Summary: Lease. Term: 5 years.\n")
	})

	t.Run("returns header only for empty room", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "# Data Room Index\n\n", lawdit.FormatIndex(nil))
	})
}
