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
	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/analyze"
	"github.com/fwojciec/pagebrief/anthropic"
	"github.com/fwojciec/pagebrief/content"
	"github.com/fwojciec/pagebrief/crawl"
	"github.com/fwojciec/pagebrief/dispatch"
	"github.com/fwojciec/pagebrief/fs"
	"github.com/fwojciec/pagebrief/gemini"
	"github.com/fwojciec/pagebrief/goquery"
	"github.com/fwojciec/pagebrief/htmltomarkdown"
	pbhttp "github.com/fwojciec/pagebrief/http"
	"github.com/fwojciec/pagebrief/ollama"
	"github.com/fwojciec/pagebrief/readability"
	"github.com/fwojciec/pagebrief/rod"
	pbslog "github.com/fwojciec/pagebrief/slog"
	"github.com/fwojciec/pagebrief/sqlite"
	"github.com/fwojciec/pagebrief/trafilatura"
	"github.com/fwojciec/pagebrief/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Settings and database paths. Set before calling Run().
	ConfigPath string
	DBPath     string

	// Stdin feeds the console.
	Stdin io.Reader

	// Getenv looks up API keys and hosts.
	Getenv func(string) string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ContentFetcher pagebrief.ContentFetcher
	Completer      pagebrief.Completer
	Crawler        Discoverer

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
		DBPath:     defaultDBPath(),
		Stdin:      os.Stdin,
		Getenv:     os.Getenv,
	}
}

// Close gracefully stops the program. Workers stop before the services
// they use are closed.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:        ctx,
		Stdin:      m.Stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		ConfigPath: m.ConfigPath,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagebrief"),
		kong.Description("Turn web pages into titles, keywords, summaries, hashtags and articles."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagebrief --help' to see available commands")
	}

	if args[0] == "help" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}
	if containsHelp(args) {
		_, _ = parser.Parse(args)
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to read working directory: %w", err)
	}
	store := yaml.NewSettingsStore(m.ConfigPath, cwd)
	settings, err := store.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Fix or remove %s, or set %s to use another file\n", store.Path(), yaml.ConfigEnv)
		return fmt.Errorf("failed to load settings: %w", err)
	}
	deps.Settings = settings
	deps.SettingsStore = store

	cmd := strings.Fields(kongCtx.Command())[0]
	if cmd == "config" {
		return kongCtx.Run(deps)
	}

	defer m.Close()

	if err := m.openDB(); err != nil {
		if cmd == "history" {
			fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", sqlite.PathEnv)
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		deps.Logger.Warn("history disabled", "path", m.DBPath, "err", err)
	} else {
		deps.Records = sqlite.NewRecordService(m.DB)
	}

	if cmd == "brief" || cmd == "crawl" || cmd == "console" {
		d, err := m.newDispatcher(ctx, deps, cli.Verbose)
		if err != nil {
			return err
		}
		deps.Tasks = d
		deps.Crawler = m.newCrawler(deps.Logger)
		deps.Reports = fs.NewWriter()
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB() error {
	if m.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
			return err
		}
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return err
	}
	return nil
}

// newDispatcher wires the fetch, extraction and save pipeline and starts it.
func (m *Main) newDispatcher(ctx context.Context, deps *Dependencies, verbose bool) (*dispatch.Dispatcher, error) {
	settings := *deps.Settings

	contentFetcher, err := m.contentFetcher(settings, deps.Logger, deps.Stderr)
	if err != nil {
		return nil, err
	}
	completer, err := m.completer(ctx, settings, deps.Stderr)
	if err != nil {
		return nil, err
	}

	d := dispatch.NewDispatcher(
		contentFetcher,
		analyze.NewAnalyzer(pbslog.NewLoggingCompleter(completer, deps.Logger)),
		pbslog.NewLoggingResultWriter(fs.NewWriter(), deps.Logger),
	)
	d.Logger = deps.Logger
	if deps.Records != nil {
		d.Records = deps.Records
	}
	d.SetSettings(settings)
	if err := d.Open(); err != nil {
		return nil, fmt.Errorf("failed to start dispatcher: %w", err)
	}
	m.closers = append(m.closers, d.Close)

	if verbose {
		d.Subscribe(pbslog.NewTaskLogger(deps.Logger).Observe)
	}
	return d, nil
}

func (m *Main) contentFetcher(settings pagebrief.Settings, logger *slog.Logger, stderr io.Writer) (pagebrief.ContentFetcher, error) {
	if m.ContentFetcher != nil {
		return m.ContentFetcher, nil
	}

	fetcher := pbhttp.NewFetcher()
	m.closers = append(m.closers, fetcher.Close)

	loader := content.NewLoader(
		pbslog.NewLoggingFetcher(fetcher, logger),
		htmltomarkdown.NewConverter(),
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
	)
	loader.Logger = logger

	if settings.Browser {
		browser, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or run 'pagebrief config set --browser=off'")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, browser.Close)
		loader.Fallback = pbslog.NewLoggingFetcher(browser, logger)
	}

	return pbslog.NewLoggingContentFetcher(loader, logger), nil
}

func (m *Main) completer(ctx context.Context, settings pagebrief.Settings, stderr io.Writer) (pagebrief.Completer, error) {
	if m.Completer != nil {
		return m.Completer, nil
	}

	switch settings.Provider {
	case pagebrief.ProviderAnthropic:
		apiKey := m.getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "ANTHROPIC_API_KEY environment variable not set. Get an API key at https://console.anthropic.com/")
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return anthropic.NewCompleter(apiKey, settings.Model), nil

	case pagebrief.ProviderOllama:
		completer, err := ollama.NewCompleter(m.getenv("OLLAMA_HOST"), settings.Model)
		if err != nil {
			return nil, err
		}
		return completer, nil

	default:
		apiKey := m.getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewCompleter(client, settings.Model), nil
	}
}

func (m *Main) newCrawler(logger *slog.Logger) Discoverer {
	if m.Crawler != nil {
		return m.Crawler
	}
	fetcher := pbhttp.NewFetcher()
	m.closers = append(m.closers, fetcher.Close)

	return &crawl.Crawler{
		Fetcher:     pbslog.NewLoggingFetcher(fetcher, logger),
		Links:       goquery.NewLinkSelector(),
		Sitemaps:    pbslog.NewLoggingSitemapService(pbhttp.NewSitemapService(nil), logger),
		RateLimiter: crawl.NewDomainLimiter(crawl.DefaultRequestsPerSecond),
		Logger:      logger,
	}
}

func (m *Main) getenv(key string) string {
	if m.Getenv == nil {
		return os.Getenv(key)
	}
	return m.Getenv(key)
}

func containsHelp(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

func defaultConfigPath() string {
	path, err := yaml.DefaultPath()
	if err != nil {
		return "settings.yaml"
	}
	return path
}

func defaultDBPath() string {
	path, err := sqlite.DefaultPath()
	if err != nil {
		return "history.db"
	}
	return path
}
