package docx_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalysis() (*lawdit.DataRoom, *lawdit.Analysis) {
	room := &lawdit.DataRoom{ID: "room-1", Name: "Acme Acquisition", Source: "drive://abc"}
	a := &lawdit.Analysis{
		ID:               "analysis-1",
		DataRoomID:       room.ID,
		ExecutiveSummary: "## Overview\n\nThe target carries **significant** contractual exposure.\n\n- Change of control clauses\n- Pending litigation",
		Overviews: map[lawdit.Category]string{
			lawdit.CategoryContracts: "Several supply agreements terminate on a change of control.",
		},
		Risks: []*lawdit.Risk{
			{
				Title:       "Pending patent claim",
				Category:    lawdit.CategoryLitigation,
				Severity:    lawdit.SeverityHigh,
				Description: "A competitor alleges infringement.",
				Documents:   []string{"doc-3"},
			},
			{
				Title:           "Change of control termination",
				Category:        lawdit.CategoryContracts,
				Severity:        lawdit.SeverityCritical,
				Description:     "Supplier may terminate on acquisition.",
				Evidence:        "Section 14.2 of the supply agreement.",
				Impact:          "Loss of the main supplier.",
				Recommendations: "Obtain a waiver before closing.",
				Documents:       []string{"doc-1", "doc-2"},
			},
		},
		DocumentCount: 12,
		CreatedAt:     time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
	}
	return room, a
}

// readPart writes the report with w and parses one of its XML parts.
func readPart(t *testing.T, w *docx.Writer, room *lawdit.DataRoom, a *lawdit.Analysis, name string) *etree.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, w.WriteDeliverable(context.Background(), &buf, room, a))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	f, err := zr.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	return doc
}

func allText(doc *etree.Document) string {
	var parts []string
	for _, el := range doc.FindElements("//w:t") {
		parts = append(parts, el.Text())
	}
	return strings.Join(parts, "\n")
}

// colorOf returns the color of the first run whose text equals s.
func colorOf(doc *etree.Document, s string) string {
	for _, r := range doc.FindElements("//w:r") {
		t := r.SelectElement("w:t")
		if t == nil || t.Text() != s {
			continue
		}
		if c := r.FindElement("w:rPr/w:color"); c != nil {
			return c.SelectAttrValue("w:val", "")
		}
		return ""
	}
	return ""
}

func TestWriter_WriteDeliverable(t *testing.T) {
	t.Parallel()

	t.Run("writes a complete package", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		var buf bytes.Buffer
		require.NoError(t, docx.NewWriter().WriteDeliverable(context.Background(), &buf, room, a))

		zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.NoError(t, err)

		var names []string
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		assert.ElementsMatch(t, []string{
			"[Content_Types].xml",
			"_rels/.rels",
			"docProps/core.xml",
			"word/_rels/document.xml.rels",
			"word/styles.xml",
			"word/settings.xml",
			"word/document.xml",
		}, names)
	})

	t.Run("cover page names the data room and date", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		text := allText(readPart(t, docx.NewWriter(), room, a, "word/document.xml"))

		assert.Contains(t, text, docx.ReportTitle)
		assert.Contains(t, text, "Acme Acquisition Data Room Due Diligence")
		assert.Contains(t, text, "Generated March 5, 2026")
		assert.Contains(t, text, "2 risks identified in 2 categories across 12 indexed documents")
	})

	t.Run("renders executive summary markdown", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		text := allText(readPart(t, docx.NewWriter(), room, a, "word/document.xml"))

		assert.Contains(t, text, "The target carries significant contractual exposure.")
		assert.Contains(t, text, "• Change of control clauses")
		assert.NotContains(t, text, "**")
	})

	t.Run("includes table of contents field", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		doc := readPart(t, docx.NewWriter(), room, a, "word/document.xml")

		instr := doc.FindElement("//w:instrText")
		require.NotNil(t, instr)
		assert.Contains(t, instr.Text(), "TOC")

		settings := readPart(t, docx.NewWriter(), room, a, "word/settings.xml")
		update := settings.FindElement("//w:updateFields")
		require.NotNil(t, update)
		assert.Equal(t, "true", update.SelectAttrValue("w:val", ""))
	})

	t.Run("orders categories and colors severities", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		doc := readPart(t, docx.NewWriter(), room, a, "word/document.xml")
		text := allText(doc)

		contracts := strings.Index(text, lawdit.CategoryContracts.Title())
		litigation := strings.Index(text, lawdit.CategoryLitigation.Title())
		require.NotEqual(t, -1, contracts)
		require.NotEqual(t, -1, litigation)
		assert.Less(t, contracts, litigation)

		assert.Equal(t, "C00000", colorOf(doc, "Critical"))
		assert.Equal(t, "FF6600", colorOf(doc, "High"))
	})

	t.Run("writes risk subsections only when present", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		text := allText(readPart(t, docx.NewWriter(), room, a, "word/document.xml"))

		assert.Equal(t, 1, strings.Count(text, "Supporting Evidence"))
		assert.Equal(t, 1, strings.Count(text, "Recommendations"))
		assert.Contains(t, text, "Obtain a waiver before closing.")
		assert.Contains(t, text, "Several supply agreements terminate on a change of control.")
	})

	t.Run("risk matrix lists risks by severity", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		doc := readPart(t, docx.NewWriter(), room, a, "word/document.xml")

		rows := doc.FindElements("//w:tbl/w:tr")
		require.Len(t, rows, 3)

		cells := func(row *etree.Element) []string {
			var out []string
			for _, tc := range row.SelectElements("w:tc") {
				out = append(out, tc.FindElement(".//w:t").Text())
			}
			return out
		}
		assert.Equal(t, []string{"Risk", "Category", "Severity", "Documents"}, cells(rows[0]))
		assert.Equal(t, []string{"Change of control termination", "Contractual Risks", "Critical", "doc-1, doc-2"}, cells(rows[1]))
		assert.Equal(t, []string{"Pending patent claim", "Litigation and Dispute Risks", "High", "doc-3"}, cells(rows[2]))
	})

	t.Run("handles analysis without risks", func(t *testing.T) {
		t.Parallel()

		room := &lawdit.DataRoom{Name: "Quiet Co"}
		a := &lawdit.Analysis{DataRoomID: "room-2"}
		text := allText(readPart(t, docx.NewWriter(), room, a, "word/document.xml"))

		assert.Contains(t, text, "No risks were identified in the reviewed documents.")
		assert.Contains(t, text, "No executive summary was produced for this analysis.")
	})

	t.Run("uses clock when analysis has no creation time", func(t *testing.T) {
		t.Parallel()

		room, a := testAnalysis()
		a.CreatedAt = time.Time{}
		w := &docx.Writer{Now: func() time.Time { return time.Date(2027, 1, 9, 0, 0, 0, 0, time.UTC) }}

		text := allText(readPart(t, w, room, a, "word/document.xml"))
		assert.Contains(t, text, "Generated January 9, 2027")

		core := readPart(t, w, room, a, "docProps/core.xml")
		assert.Equal(t, "2027-01-09T00:00:00Z", core.FindElement("//dcterms:created").Text())
	})

	t.Run("rejects missing analysis", func(t *testing.T) {
		t.Parallel()

		err := docx.NewWriter().WriteDeliverable(context.Background(), io.Discard, &lawdit.DataRoom{}, nil)

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}
