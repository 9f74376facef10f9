package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/gemini"
	"github.com/lawdit/lawdit/index"
	"github.com/lawdit/lawdit/sqlite"
)

// SourceOpener opens the file source behind a data room location.
// Credentials are only used by Google Drive sources.
type SourceOpener func(ctx context.Context, loc lawdit.SourceLocation, credentials string) (lawdit.Source, error)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	DataRooms lawdit.DataRoomService
	Documents lawdit.DocumentService
	Analyses  lawdit.AnalysisService

	// Wired per command.
	Indexer    *index.Indexer
	OpenSource SourceOpener
	Analyzer   lawdit.Analyzer
	Reporter   *Reporter
	Asker      lawdit.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"YAML file with flag defaults"`
	Verbose bool            `short:"v" help:"Log operations to stderr"`

	Model             string `default:"${model}" env:"LAWDIT_MODEL" help:"Gemini model"`
	RequestsPerMinute int    `name:"rpm" default:"${rpm}" env:"LAWDIT_RPM" help:"Model requests per minute"`
	TokensPerMinute   int    `name:"tpm" default:"${tpm}" env:"LAWDIT_TPM" help:"Model input tokens per minute"`

	Index    IndexCmd    `cmd:"" help:"Index the documents of a data room"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Run a legal risk analysis over an indexed data room"`
	Report   ReportCmd   `cmd:"" help:"Regenerate the deliverables of a stored analysis"`
	List     ListCmd     `cmd:"" help:"List all data rooms"`
	Docs     DocsCmd     `cmd:"" help:"List indexed documents of a data room"`
	Analyses AnalysesCmd `cmd:"" help:"List analyses of a data room"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a data room with its documents and analyses"`
	Ask      AskCmd      `cmd:"" help:"Ask a question about a data room"`
}

// Vars are the interpolated defaults referenced from CLI tags.
func Vars() kong.Vars {
	return kong.Vars{
		"model":       gemini.DefaultModel,
		"rpm":         strconv.Itoa(gemini.DefaultRequestsPerMinute),
		"tpm":         strconv.Itoa(gemini.DefaultTokensPerMinute),
		"dpi":         strconv.Itoa(200),
		"parallel":    strconv.Itoa(index.DefaultConcurrency),
		"iterations":  strconv.Itoa(gemini.DefaultMaxIterations),
		"working_dir": "./data_room_processing",
		"output_dir":  "./outputs",
		"index_file":  "./data_room_index.md",
	}
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Name        string `arg:"" help:"Data room name"`
	Source      string `short:"s" env:"LAWDIT_SOURCE" help:"Source URI: drive://FOLDER_ID, s3://BUCKET/PREFIX or a local directory"`
	FolderID    string `name:"folder-id" help:"Google Drive folder ID (shorthand for --source drive://ID)"`
	Credentials string `short:"c" env:"GOOGLE_APPLICATION_CREDENTIALS" type:"path" help:"Service account credentials JSON for Google Drive"`
	Region      string `env:"AWS_REGION" help:"AWS region for S3 sources"`
	Output      string `short:"o" default:"${index_file}" type:"path" help:"Path of the index file to write"`
	WorkingDir  string `short:"w" default:"${working_dir}" type:"path" help:"Directory for downloaded PDFs, page images and records"`
	DPI         int    `default:"${dpi}" help:"Page rendering resolution (72-600)"`
	Parallel    int    `short:"p" default:"${parallel}" help:"Pages summarized in parallel (1-20)"`
	Force       bool   `short:"f" help:"Reindex documents already in the catalog"`
}

// Validate checks flag ranges.
func (c *IndexCmd) Validate() error {
	if c.DPI < 72 || c.DPI > 600 {
		return lawdit.Errorf(lawdit.EINVALID, "--dpi must be between 72 and 600")
	}
	if c.Parallel < 1 || c.Parallel > index.MaxConcurrency {
		return lawdit.Errorf(lawdit.EINVALID, "--parallel must be between 1 and %d", index.MaxConcurrency)
	}
	if c.Source != "" && c.FolderID != "" {
		return lawdit.Errorf(lawdit.EINVALID, "use either --source or --folder-id")
	}
	return nil
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	Name            string   `arg:"" help:"Data room name"`
	Index           string   `short:"i" type:"path" help:"Index file to analyze (default: built from the catalog)"`
	WorkingDir      string   `short:"w" type:"path" help:"Read document records from this directory instead of the catalog"`
	OutputDir       string   `short:"o" default:"${output_dir}" type:"path" help:"Directory for the analysis files and deliverables"`
	Focus           []string `short:"f" default:"all" help:"Focus areas: contracts, regulatory, litigation, governance or all"`
	EnableWebSearch bool     `name:"enable-web-search" env:"LAWDIT_WEB_SEARCH" help:"Let agents search and read the web (needs TAVILY_API_KEY)"`
	MaxIterations   int      `default:"${iterations}" help:"Model turns allowed per agent run"`
	PDF             bool     `name:"pdf" help:"Also print the dashboard to PDF"`
}

// Validate checks flag ranges.
func (c *AnalyzeCmd) Validate() error {
	if c.MaxIterations < 1 {
		return lawdit.Errorf(lawdit.EINVALID, "--max-iterations must be at least 1")
	}
	_, err := lawdit.ParseFocusAreas(c.Focus)
	return err
}

// ReportCmd is the "report" subcommand.
type ReportCmd struct {
	AnalysisID string `arg:"" name:"analysis-id" help:"Analysis ID"`
	OutputDir  string `short:"o" default:"${output_dir}" type:"path" help:"Directory for the deliverables"`
	PDF        bool   `name:"pdf" help:"Also print the dashboard to PDF"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Name string `arg:"" help:"Data room name"`
	Full bool   `help:"Show document and page summaries"`
}

// AnalysesCmd is the "analyses" subcommand.
type AnalysesCmd struct {
	Name string `arg:"" help:"Data room name"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Data room name"`
	Force bool   `help:"Confirm deletion"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Name     string `arg:"" help:"Data room name"`
	Question string `arg:"" help:"Question to ask about the data room"`
}
