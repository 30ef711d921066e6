package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/crawl"
)

// Tasks is the task service the commands drive.
type Tasks interface {
	pagebrief.TaskService

	// Settings returns the settings in effect for new work.
	Settings() pagebrief.Settings

	// SetSettings changes the project directory and auto-save flag at runtime.
	SetSettings(s pagebrief.Settings)
}

// Discoverer finds same-site pages to brief.
type Discoverer interface {
	Discover(ctx context.Context, baseURL string, opts crawl.Options) ([]string, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	ConfigPath    string
	Settings      *pagebrief.Settings
	SettingsStore pagebrief.SettingsService

	Tasks   Tasks
	Records pagebrief.RecordService
	Crawler Discoverer
	Reports pagebrief.ReportWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log debug output to stderr"`

	Brief   BriefCmd   `cmd:"" help:"Brief one or more web pages"`
	Crawl   CrawlCmd   `cmd:"" help:"Crawl a site and write a combined report"`
	Console ConsoleCmd `cmd:"" help:"Queue and manage briefs interactively"`
	Config  ConfigCmd  `cmd:"" help:"Show or change settings"`
	History HistoryCmd `cmd:"" help:"Browse past briefs"`
}

// BriefCmd is the "brief" subcommand.
type BriefCmd struct {
	URLs   []string `arg:"" name:"url" help:"Page URLs to brief"`
	NoSave bool     `help:"Don't save results even when auto-save is on"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL       string `arg:"" help:"Start URL"`
	MaxPages  int    `short:"n" default:"5" help:"Maximum number of pages, start page included"`
	MaxDepth  int    `short:"d" default:"2" help:"Maximum link hops from the start page"`
	Sitemap   bool   `help:"Read the site's sitemap before following links"`
	SavePages bool   `help:"Also save each page's brief as its own file"`
}

// ConsoleCmd is the "console" subcommand.
type ConsoleCmd struct{}

// ConfigCmd groups the settings subcommands.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Show settings"`
	Set  ConfigSetCmd  `cmd:"" help:"Change settings"`
}

// ConfigShowCmd is the "config show" subcommand.
type ConfigShowCmd struct{}

// ConfigSetCmd is the "config set" subcommand. Empty flags leave the
// setting unchanged.
type ConfigSetCmd struct {
	Dir         string `help:"Project directory for saved briefs"`
	AutoSave    string `name:"auto-save" placeholder:"on|off" help:"Save every completed brief"`
	Concurrency int    `short:"c" help:"Number of pages processed at once"`
	Provider    string `placeholder:"gemini|anthropic|ollama" help:"Language model provider"`
	Model       string `help:"Model name, or 'default' for the provider default"`
	Browser     string `placeholder:"on|off" help:"Render thin or failing pages in headless Chrome"`
}

// HistoryCmd groups the history subcommands.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"withargs" help:"List past briefs, newest first"`
	Show   HistoryShowCmd   `cmd:"" help:"Show a past brief"`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete a past brief"`
}

// HistoryListCmd is the "history list" subcommand.
type HistoryListCmd struct {
	URL   string `help:"Only list briefs of this URL"`
	Limit int    `short:"n" default:"20" help:"Maximum number of briefs"`
}

// HistoryShowCmd is the "history show" subcommand.
type HistoryShowCmd struct {
	ID string `arg:"" help:"Brief ID"`
}

// HistoryDeleteCmd is the "history delete" subcommand.
type HistoryDeleteCmd struct {
	ID    string `arg:"" help:"Brief ID"`
	Force bool   `help:"Confirm deletion"`
}
