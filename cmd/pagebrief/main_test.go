package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagebrief"
	main "github.com/fwojciec/pagebrief/cmd/pagebrief"
	"github.com/fwojciec/pagebrief/mock"
	"github.com/fwojciec/pagebrief/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"brief", "crawl", "console", "config", "history"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

// newTestMain returns a Main with its own settings and database files,
// saving briefs into the returned directory.
func newTestMain(t *testing.T) (*main.Main, string) {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "briefs")
	configPath := filepath.Join(root, "settings.yaml")

	settings := pagebrief.DefaultSettings(dir)
	require.NoError(t, yaml.NewSettingsStore(configPath, root).SaveSettings(settings))

	m := main.NewMain()
	m.ConfigPath = configPath
	m.DBPath = filepath.Join(root, "pagebrief.db")
	m.Getenv = func(string) string { return "" }
	m.ContentFetcher = pageContent()
	m.Completer = &mock.Completer{
		CompleteFn: func(context.Context, string) (string, error) {
			return "Token Buckets", nil
		},
	}
	return m, dir
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "Flags:")
	})

	t.Run("subcommand help returns without running", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"crawl", "--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "--max-pages")
	})

	t.Run("no command prints help and fails", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("brief saves the result and records it in history", func(t *testing.T) {
		t.Parallel()

		m, dir := newTestMain(t)
		stdout := &safeBuffer{}

		err := m.Run(context.Background(), []string{"brief", "https://example.com/a"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "# Token Buckets")
		matches, err := filepath.Glob(filepath.Join(dir, "brief-*.md"))
		require.NoError(t, err)
		assert.Len(t, matches, 1)

		history := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), []string{"history"}, history, &bytes.Buffer{}))
		assert.Contains(t, history.String(), "Token Buckets")
		assert.Contains(t, history.String(), "https://example.com/a")
	})

	t.Run("config set persists between runs", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestMain(t)

		err := m.Run(context.Background(), []string{"config", "set", "--concurrency=7", "--auto-save=off"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), []string{"config"}, stdout, &bytes.Buffer{}))
		assert.Contains(t, stdout.String(), "concurrency:       7")
		assert.Contains(t, stdout.String(), "auto-save:         off")
	})

	t.Run("missing API key explains where to get one", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestMain(t)
		m.Completer = nil
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"brief", "https://example.com/a"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY not set")
		assert.Contains(t, stderr.String(), "https://aistudio.google.com/apikey")
	})
}
