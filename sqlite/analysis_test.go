package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalysis(dataRoomID string) *lawdit.Analysis {
	return &lawdit.Analysis{
		DataRoomID:       dataRoomID,
		Focus:            []lawdit.FocusArea{lawdit.FocusContracts, lawdit.FocusLitigation},
		ExecutiveSummary: "Two critical issues.",
		Overviews:        map[lawdit.Category]string{lawdit.CategoryContracts: "Contracts overview."},
		Synthesis:        "# Assessment",
		DocumentCount:    3,
		Iterations:       12,
		Risks: []*lawdit.Risk{
			{
				Title:     "Uncapped indemnity",
				Category:  lawdit.CategoryContracts,
				Severity:  lawdit.SeverityCritical,
				Evidence:  "SPA s. 9.2",
				Documents: []string{"DOC-1"},
			},
			{Title: "Pending claim", Category: lawdit.CategoryLitigation, Severity: lawdit.SeverityHigh},
		},
		Findings: []*lawdit.Finding{
			{Path: "/analysis/contracts/findings.md", Content: "# Contracts"},
		},
	}
}

func TestAnalysisService_CreateAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("round-trips analysis with risks and findings", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAnalysisService(db)
		room := createTestDataRoom(t, db, "acme")
		ctx := context.Background()

		a := testAnalysis(room.ID)
		require.NoError(t, svc.CreateAnalysis(ctx, a))
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Risks[0].ID)

		found, err := svc.FindAnalysisByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.Focus, found.Focus)
		assert.Equal(t, "Two critical issues.", found.ExecutiveSummary)
		assert.Equal(t, "Contracts overview.", found.Overviews[lawdit.CategoryContracts])
		assert.Equal(t, 3, found.DocumentCount)
		assert.Equal(t, 12, found.Iterations)
		require.Len(t, found.Risks, 2)
		assert.Equal(t, "Uncapped indemnity", found.Risks[0].Title)
		assert.Equal(t, []string{"DOC-1"}, found.Risks[0].Documents)
		assert.Nil(t, found.Risks[1].Documents)
		require.Len(t, found.Findings, 1)
		assert.Equal(t, "# Contracts", found.Findings[0].Content)
	})

	t.Run("rejects invalid risk", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAnalysisService(db)
		room := createTestDataRoom(t, db, "acme")

		a := testAnalysis(room.ID)
		a.Risks[0].Severity = "Severe"

		err := svc.CreateAnalysis(context.Background(), a)
		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}

func TestAnalysisService_FindAnalyses(t *testing.T) {
	t.Parallel()

	t.Run("returns newest first without risks", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAnalysisService(db)
		room := createTestDataRoom(t, db, "acme")
		ctx := context.Background()

		older := testAnalysis(room.ID)
		older.CreatedAt = time.Now().Add(-time.Hour)
		require.NoError(t, svc.CreateAnalysis(ctx, older))
		newer := testAnalysis(room.ID)
		require.NoError(t, svc.CreateAnalysis(ctx, newer))

		analyses, err := svc.FindAnalyses(ctx, lawdit.AnalysisFilter{DataRoomID: &room.ID})
		require.NoError(t, err)
		require.Len(t, analyses, 2)
		assert.Equal(t, newer.ID, analyses[0].ID)
		assert.Empty(t, analyses[0].Risks)
	})

	t.Run("filters by data room", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAnalysisService(db)
		a := createTestDataRoom(t, db, "a")
		b := createTestDataRoom(t, db, "b")
		ctx := context.Background()
		require.NoError(t, svc.CreateAnalysis(ctx, testAnalysis(a.ID)))
		require.NoError(t, svc.CreateAnalysis(ctx, testAnalysis(b.ID)))

		analyses, err := svc.FindAnalyses(ctx, lawdit.AnalysisFilter{DataRoomID: &b.ID})
		require.NoError(t, err)
		require.Len(t, analyses, 1)
		assert.Equal(t, b.ID, analyses[0].DataRoomID)
	})
}

func TestAnalysisService_DeleteAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("removes analysis and risks", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAnalysisService(db)
		room := createTestDataRoom(t, db, "acme")
		ctx := context.Background()
		a := testAnalysis(room.ID)
		require.NoError(t, svc.CreateAnalysis(ctx, a))

		require.NoError(t, svc.DeleteAnalysis(ctx, a.ID))

		_, err := svc.FindAnalysisByID(ctx, a.ID)
		assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM risks").Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("returns ENOTFOUND for missing analysis", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAnalysisService(db)

		err := svc.DeleteAnalysis(context.Background(), "missing")
		assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
	})
}
