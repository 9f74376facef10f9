package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lawdit/lawdit"
)

// Compile-time interface verification.
var _ lawdit.AnalysisService = (*AnalysisService)(nil)

// AnalysisService implements lawdit.AnalysisService using SQLite.
type AnalysisService struct {
	db *DB
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// CreateAnalysis stores an analysis with its overviews, risks and findings
// in a single transaction.
func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *lawdit.Analysis) error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.ID = uuid.New().String()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analyses (id, data_room_id, focus, executive_summary, synthesis, document_count, iterations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.DataRoomID, joinFocus(a.Focus), a.ExecutiveSummary, a.Synthesis,
		a.DocumentCount, a.Iterations, formatTime(a.CreatedAt)); err != nil {
		return err
	}

	for category, overview := range a.Overviews {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_overviews (analysis_id, category, overview)
			VALUES (?, ?, ?)
		`, a.ID, string(category), overview); err != nil {
			return err
		}
	}

	for i, r := range a.Risks {
		r.ID = uuid.New().String()
		documents, err := json.Marshal(r.Documents)
		if err != nil {
			return fmt.Errorf("failed to encode risk documents: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO risks (id, analysis_id, position, title, category, severity, description, evidence, impact, recommendations, documents)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, a.ID, i, r.Title, string(r.Category), string(r.Severity), r.Description,
			r.Evidence, r.Impact, r.Recommendations, string(documents)); err != nil {
			return err
		}
	}

	for _, f := range a.Findings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO findings (analysis_id, path, content)
			VALUES (?, ?, ?)
		`, a.ID, f.Path, f.Content); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindAnalysisByID retrieves an analysis with its overviews, risks and findings.
func (s *AnalysisService) FindAnalysisByID(ctx context.Context, id string) (*lawdit.Analysis, error) {
	analyses, err := s.FindAnalyses(ctx, lawdit.AnalysisFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, lawdit.Errorf(lawdit.ENOTFOUND, "analysis not found")
	}

	a := analyses[0]
	if a.Overviews, err = s.findOverviews(ctx, id); err != nil {
		return nil, err
	}
	if a.Risks, err = s.findRisks(ctx, id); err != nil {
		return nil, err
	}
	if a.Findings, err = s.findFindings(ctx, id); err != nil {
		return nil, err
	}
	return a, nil
}

// FindAnalyses retrieves analyses matching the filter, newest first.
func (s *AnalysisService) FindAnalyses(ctx context.Context, filter lawdit.AnalysisFilter) ([]*lawdit.Analysis, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, data_room_id, focus, executive_summary, synthesis, document_count, iterations, created_at
		FROM analyses WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DataRoomID != nil {
		query.WriteString(" AND data_room_id = ?")
		args = append(args, *filter.DataRoomID)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*lawdit.Analysis
	for rows.Next() {
		var a lawdit.Analysis
		var focus, createdAt string

		if err := rows.Scan(&a.ID, &a.DataRoomID, &focus, &a.ExecutiveSummary, &a.Synthesis,
			&a.DocumentCount, &a.Iterations, &createdAt); err != nil {
			return nil, err
		}

		a.Focus = splitFocus(focus)
		if a.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		analyses = append(analyses, &a)
	}

	return analyses, rows.Err()
}

// DeleteAnalysis permanently removes an analysis.
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return lawdit.Errorf(lawdit.ENOTFOUND, "analysis not found")
	}

	return nil
}

func (s *AnalysisService) findOverviews(ctx context.Context, analysisID string) (map[lawdit.Category]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, overview FROM category_overviews WHERE analysis_id = ?", analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overviews := make(map[lawdit.Category]string)
	for rows.Next() {
		var category, overview string
		if err := rows.Scan(&category, &overview); err != nil {
			return nil, err
		}
		overviews[lawdit.Category(category)] = overview
	}
	return overviews, rows.Err()
}

func (s *AnalysisService) findRisks(ctx context.Context, analysisID string) ([]*lawdit.Risk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, severity, description, evidence, impact, recommendations, documents
		FROM risks
		WHERE analysis_id = ?
		ORDER BY position
	`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var risks []*lawdit.Risk
	for rows.Next() {
		var r lawdit.Risk
		var category, severity, documents string

		if err := rows.Scan(&r.ID, &r.Title, &category, &severity, &r.Description,
			&r.Evidence, &r.Impact, &r.Recommendations, &documents); err != nil {
			return nil, err
		}

		r.Category = lawdit.Category(category)
		r.Severity = lawdit.Severity(severity)
		if err := json.Unmarshal([]byte(documents), &r.Documents); err != nil {
			return nil, fmt.Errorf("failed to decode risk documents: %w", err)
		}

		risks = append(risks, &r)
	}
	return risks, rows.Err()
}

func (s *AnalysisService) findFindings(ctx context.Context, analysisID string) ([]*lawdit.Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, content FROM findings WHERE analysis_id = ? ORDER BY path", analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var findings []*lawdit.Finding
	for rows.Next() {
		var f lawdit.Finding
		if err := rows.Scan(&f.Path, &f.Content); err != nil {
			return nil, err
		}
		findings = append(findings, &f)
	}
	return findings, rows.Err()
}

func joinFocus(focus []lawdit.FocusArea) string {
	parts := make([]string, len(focus))
	for i, f := range focus {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

func splitFocus(s string) []lawdit.FocusArea {
	if s == "" {
		return nil
	}
	var focus []lawdit.FocusArea
	for _, part := range strings.Split(s, ",") {
		focus = append(focus, lawdit.FocusArea(part))
	}
	return focus
}
