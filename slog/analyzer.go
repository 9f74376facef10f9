package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/lawdit/lawdit"
)

var (
	_ lawdit.Analyzer = (*LoggingAnalyzer)(nil)
	_ lawdit.Asker    = (*LoggingAsker)(nil)
)

// LoggingAnalyzer wraps an Analyzer with logging.
type LoggingAnalyzer struct {
	next   lawdit.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next lawdit.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the outcome.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, req lawdit.AnalysisRequest) (analysis *lawdit.Analysis, err error) {
	a.logger.Info("analysis started",
		"dataRoom", dataRoomName(req.DataRoom),
		"focus", req.Focus,
		"webSearch", req.EnableWebSearch,
		"maxIterations", req.MaxIterations,
	)
	defer func(begin time.Time) {
		var risks, iterations int
		if analysis != nil {
			risks = len(analysis.Risks)
			iterations = analysis.Iterations
		}
		a.logger.Info("analysis finished",
			"dataRoom", dataRoomName(req.DataRoom),
			"risks", risks,
			"iterations", iterations,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Analyze(ctx, req)
}

func dataRoomName(room *lawdit.DataRoom) string {
	if room == nil {
		return ""
	}
	return room.Name
}

// LoggingAsker wraps an Asker with logging.
type LoggingAsker struct {
	next   lawdit.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next lawdit.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker.
func (a *LoggingAsker) Ask(ctx context.Context, dataRoomID, question string) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("ask",
			"dataRoom", dataRoomID,
			"chars", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, dataRoomID, question)
}
