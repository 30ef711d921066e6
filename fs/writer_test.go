package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var savedAt = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedWriter() *fs.Writer {
	return &fs.Writer{Now: func() time.Time { return savedAt }}
}

func sampleResult() *pagebrief.Result {
	return &pagebrief.Result{
		Title:    "Bounded Queues",
		Keywords: []string{"queues", "worker pools"},
		Summary:  "Queues absorb bursts.\nWorkers stay bounded.",
		Hashtags: []string{"#go", "#concurrency"},
		Article:  "# Bounded Queues\n\n## Why\n\nBursts happen.\n\n- one\n- two",
	}
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	got := fs.FormatResult("https://example.com/a", sampleResult(), savedAt)

	want := `# Bounded Queues

Source: https://example.com/a
Saved: 2026-03-14 09:26:53

## Keywords

- queues
- worker pools

## Summary

Queues absorb bursts.
Workers stay bounded.

## Hashtags

- #go
- #concurrency

## Full Article

# Bounded Queues

## Why

Bursts happen.

- one
- two
`
	assert.Equal(t, want, got)
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	t.Run("recovers every field", func(t *testing.T) {
		t.Parallel()

		doc := fs.FormatResult("https://example.com/a", sampleResult(), savedAt)

		sourceURL, result, err := fs.ParseResult(doc)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", sourceURL)
		assert.Equal(t, sampleResult(), result)
	})

	t.Run("recovers empty fields", func(t *testing.T) {
		t.Parallel()

		doc := fs.FormatResult("https://example.com/a", &pagebrief.Result{}, savedAt)

		_, result, err := fs.ParseResult(doc)

		require.NoError(t, err)
		assert.Equal(t, &pagebrief.Result{}, result)
	})

	t.Run("keeps heading-like lines inside the summary", func(t *testing.T) {
		t.Parallel()

		want := sampleResult()
		want.Summary = "Two parts follow.\n## Hashtags\n## Keywords\n\\escaped already\n## Full Article\nEnd."
		doc := fs.FormatResult("https://example.com/a", want, savedAt)

		_, got, err := fs.ParseResult(doc)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("accepts CRLF line endings", func(t *testing.T) {
		t.Parallel()

		doc := "# T\r\n\r\nSource: https://example.com/a\r\n\r\n## Keywords\r\n\r\n- k\r\n\r\n## Full Article\r\n\r\nBody\r\n"

		_, result, err := fs.ParseResult(doc)

		require.NoError(t, err)
		assert.Equal(t, "T", result.Title)
		assert.Equal(t, []string{"k"}, result.Keywords)
		assert.Equal(t, "Body", result.Article)
	})

	t.Run("rejects document without article section", func(t *testing.T) {
		t.Parallel()

		_, _, err := fs.ParseResult("# T\n\nSource: https://example.com/a\n")

		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
	})

	t.Run("rejects document without source", func(t *testing.T) {
		t.Parallel()

		_, _, err := fs.ParseResult("# T\n\n## Full Article\n\nBody\n")

		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
	})
}

func TestFileName(t *testing.T) {
	t.Parallel()

	a := fs.FileName("https://example.com/a", savedAt)
	b := fs.FileName("https://example.com/b", savedAt)

	assert.Regexp(t, `^brief-20260314-092653-[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, fs.FileName("https://example.com/a", savedAt))
}

func TestWriter_SaveResult(t *testing.T) {
	t.Parallel()

	t.Run("writes document into directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		path, err := fixedWriter().SaveResult(context.Background(), dir, "https://example.com/a", sampleResult())

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, fs.FileName("https://example.com/a", savedAt)+".md"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, fs.FormatResult("https://example.com/a", sampleResult(), savedAt), string(data))
	})

	t.Run("never overwrites existing files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fixedWriter()

		first, err := w.SaveResult(context.Background(), dir, "https://example.com/a", sampleResult())
		require.NoError(t, err)
		second, err := w.SaveResult(context.Background(), dir, "https://example.com/a", &pagebrief.Result{Title: "Second"})
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, filepath.Join(dir, fs.FileName("https://example.com/a", savedAt)+"-2.md"), second)
		data, err := os.ReadFile(first)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Bounded Queues")
	})

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "briefs", "2026")

		path, err := fixedWriter().SaveResult(context.Background(), dir, "https://example.com/a", sampleResult())

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("returns EPERSIST when directory is a file", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "taken")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := fixedWriter().SaveResult(context.Background(), file, "https://example.com/a", sampleResult())

		require.Error(t, err)
		assert.Equal(t, pagebrief.EPERSIST, pagebrief.ErrorCode(err))
	})

	t.Run("returns EPERSIST without directory", func(t *testing.T) {
		t.Parallel()

		_, err := fixedWriter().SaveResult(context.Background(), "", "https://example.com/a", sampleResult())

		assert.Equal(t, pagebrief.EPERSIST, pagebrief.ErrorCode(err))
	})

	t.Run("rejects nil result", func(t *testing.T) {
		t.Parallel()

		_, err := fixedWriter().SaveResult(context.Background(), t.TempDir(), "https://example.com/a", nil)

		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
	})
}
