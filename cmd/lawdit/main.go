package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/dashboard"
	"github.com/lawdit/lawdit/docx"
	"github.com/lawdit/lawdit/drive"
	lawditfs "github.com/lawdit/lawdit/fs"
	"github.com/lawdit/lawdit/gemini"
	"github.com/lawdit/lawdit/htmltomarkdown"
	lawdithttp "github.com/lawdit/lawdit/http"
	"github.com/lawdit/lawdit/index"
	"github.com/lawdit/lawdit/local"
	"github.com/lawdit/lawdit/poppler"
	"github.com/lawdit/lawdit/readability"
	"github.com/lawdit/lawdit/rod"
	"github.com/lawdit/lawdit/s3"
	lawditslog "github.com/lawdit/lawdit/slog"
	"github.com/lawdit/lawdit/sqlite"
	"github.com/lawdit/lawdit/tavily"
	"github.com/lawdit/lawdit/trafilatura"
	"github.com/lawdit/lawdit/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// ConfigPaths are YAML files consulted for flag defaults. Missing files
	// are ignored.
	ConfigPaths []string

	// Getenv looks up API keys. Defaults to os.Getenv.
	Getenv func(string) string

	// NewTokenCounter builds the local tokenizer used for token budgets.
	// Defaults to the Gemini tokenizer.
	NewTokenCounter func(model string) (lawdit.TokenCounter, error)

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DataRoomService lawdit.DataRoomService
	DocumentService lawdit.DocumentService
	AnalysisService lawdit.AnalysisService

	browser *rod.BrowserManager
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:          defaultDBPath(),
		ConfigPaths:     []string{filepath.Join(homeDir(), ".lawdit", "config.yaml")},
		Getenv:          os.Getenv,
		NewTokenCounter: newTokenCounter,
	}
}

func newTokenCounter(model string) (lawdit.TokenCounter, error) {
	tc, err := gemini.NewTokenCounter(model)
	if err != nil {
		return nil, err
	}
	return tc, nil
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.browser != nil {
		_ = m.browser.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lawdit"),
		kong.Description("Legal due diligence over a data room: index documents, analyze risks, write reports."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLLoader, m.ConfigPaths...),
		Vars(),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lawdit --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LAWDIT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.DataRoomService = sqlite.NewDataRoomService(m.DB)
	m.DocumentService = sqlite.NewDocumentService(m.DB)
	m.AnalysisService = sqlite.NewAnalysisService(m.DB)
	deps.DB = m.DB
	deps.DataRooms = m.DataRoomService
	deps.Documents = m.DocumentService
	deps.Analyses = m.AnalysisService

	switch cmd {
	case "index":
		gen, err := m.generator(ctx, cli, stderr)
		if err != nil {
			return err
		}
		renderer, err := poppler.NewRenderer(cli.Index.DPI, cli.Index.Parallel)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: pdftoppm (poppler-utils) must be installed")
			return err
		}
		deps.Indexer = &index.Indexer{
			Renderer:    lawditslog.NewLoggingRenderer(renderer, deps.Logger),
			Summarizer:  lawditslog.NewLoggingSummarizer(gemini.NewSummarizer(gen, cli.Model), deps.Logger),
			Documents:   m.DocumentService,
			Records:     lawditfs.NewRecordWriter(),
			RetryDelays: index.DefaultRetryDelays(),
		}
		deps.OpenSource = m.sourceOpener(cli.Index.Region, deps.Logger)

	case "analyze":
		gen, err := m.generator(ctx, cli, stderr)
		if err != nil {
			return err
		}
		analyzer := gemini.NewAnalyzer(gen, cli.Model)
		if cli.Analyze.EnableWebSearch {
			if err := m.wireResearch(analyzer, cli, deps); err != nil {
				return err
			}
		}
		deps.Analyzer = lawditslog.NewLoggingAnalyzer(analyzer, deps.Logger)
		if deps.Reporter, err = m.reporter(cli.Analyze.PDF, stderr); err != nil {
			return err
		}

	case "report":
		if deps.Reporter, err = m.reporter(cli.Report.PDF, stderr); err != nil {
			return err
		}

	case "ask":
		gen, err := m.generator(ctx, cli, stderr)
		if err != nil {
			return err
		}
		deps.Asker = lawditslog.NewLoggingAsker(gemini.NewAsker(gen, m.DocumentService, cli.Model), deps.Logger)
	}

	return kongCtx.Run(deps)
}

// generator returns the rate limited Gemini client shared by every model
// call of the command.
func (m *Main) generator(ctx context.Context, cli *CLI, stderr io.Writer) (gemini.ContentGenerator, error) {
	apiKey := m.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, lawdit.Errorf(lawdit.EINVALID, "GEMINI_API_KEY not set")
	}

	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	counter, err := m.NewTokenCounter(tokenizerModel)
	if err != nil {
		fmt.Fprintf(stderr, "warning: tokenizer unavailable (%v); estimating tokens from text length\n", err)
		counter = nil
	}

	return gemini.NewThrottle(client.Models, counter, cli.RequestsPerMinute, cli.TokensPerMinute), nil
}

// wireResearch gives the analyzer the internet_search and web_fetch
// backends. Without a browser, pages are read with plain HTTP only.
func (m *Main) wireResearch(analyzer *gemini.Analyzer, cli *CLI, deps *Dependencies) error {
	apiKey := m.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(deps.Stderr, "TAVILY_API_KEY environment variable not set. Get an API key at https://tavily.com")
		return lawdit.Errorf(lawdit.EINVALID, "TAVILY_API_KEY not set; required by --enable-web-search")
	}
	analyzer.Searcher = lawditslog.NewLoggingWebSearcher(tavily.NewSearcher(apiKey), deps.Logger)

	reader := &web.Reader{
		Static: lawditslog.NewLoggingFetcher(lawdithttp.NewFetcher(), deps.Logger),
		Extractors: []lawdit.Extractor{
			trafilatura.NewExtractor(),
			readability.NewExtractor(),
		},
		Converter: htmltomarkdown.NewConverter(),
		Limiter:   web.NewHostLimiter(web.DefaultHostRate),
	}
	if browser, err := m.browserManager(); err != nil {
		deps.Logger.Warn("browser unavailable, web_fetch uses plain HTTP", "err", err)
	} else {
		fetcher, err := rod.NewFetcher(rod.WithManager(browser))
		if err != nil {
			return err
		}
		reader.Browser = lawditslog.NewLoggingFetcher(fetcher, deps.Logger)
	}
	analyzer.Reader = lawditslog.NewLoggingWebReader(reader, deps.Logger)
	return nil
}

func (m *Main) reporter(pdf bool, stderr io.Writer) (*Reporter, error) {
	r := &Reporter{
		Report:    docx.NewWriter(),
		Dashboard: dashboard.NewWriter(),
	}
	if pdf {
		browser, err := m.browserManager()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --pdf")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		r.Printer = rod.NewPrinter(browser)
	}
	return r, nil
}

func (m *Main) browserManager() (*rod.BrowserManager, error) {
	if m.browser != nil {
		return m.browser, nil
	}
	b, err := rod.NewBrowserManager()
	if err != nil {
		return nil, err
	}
	m.browser = b
	return b, nil
}

// sourceOpener opens data room sources, wrapped with logging.
func (m *Main) sourceOpener(region string, logger *slog.Logger) SourceOpener {
	return func(ctx context.Context, loc lawdit.SourceLocation, credentials string) (lawdit.Source, error) {
		var src lawdit.Source
		switch loc.Kind {
		case lawdit.SourceDrive:
			if credentials == "" {
				return nil, lawdit.Errorf(lawdit.EINVALID, "--credentials is required for Google Drive sources")
			}
			svc, err := drive.NewService(ctx, credentials)
			if err != nil {
				return nil, err
			}
			src = drive.NewSource(svc, loc.Root)
		case lawdit.SourceS3:
			client, err := s3.NewClient(ctx, region)
			if err != nil {
				return nil, err
			}
			src = s3.NewSource(client, loc.Root, loc.Prefix)
		default:
			src = local.NewSource(loc.Root)
		}
		return lawditslog.NewLoggingSource(src, logger), nil
	}
}

// tokenizerModel is used for local token estimates in the throttle.
const tokenizerModel = "gemini-2.5-flash"

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func defaultDBPath() string {
	if path := os.Getenv("LAWDIT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "lawdit.db"
	}
	dir := filepath.Join(home, ".lawdit")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "lawdit.db")
}
