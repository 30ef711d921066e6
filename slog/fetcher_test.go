package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/mock"
	pbslog "github.com/fwojciec/pagebrief/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := pbslog.NewLoggingFetcher(inner, debugLogger(&buf))
		html, err := fetcher.Fetch(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/a")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := pbslog.NewLoggingFetcher(inner, debugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/a")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"network error\"")
	})

	t.Run("stays quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "<p>x</p>", nil },
		}

		fetcher := pbslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	err := pbslog.NewLoggingFetcher(inner, slog.New(slog.DiscardHandler)).Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingContentFetcher_FetchContent(t *testing.T) {
	t.Parallel()

	t.Run("logs text and markdown sizes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ContentFetcher{
			FetchContentFn: func(_ context.Context, url string) (*pagebrief.Content, error) {
				return &pagebrief.Content{URL: url, Text: "hello", Markdown: "# hello"}, nil
			},
		}

		c, err := pbslog.NewLoggingContentFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil))).
			FetchContent(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "hello", c.Text)
		output := buf.String()
		assert.Contains(t, output, "msg=\"fetch content\"")
		assert.Contains(t, output, "text=5")
		assert.Contains(t, output, "markdown=7")
	})

	t.Run("logs error without content", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ContentFetcher{
			FetchContentFn: func(context.Context, string) (*pagebrief.Content, error) {
				return nil, pagebrief.Errorf(pagebrief.EFETCH, "HTTP 404 for https://example.com/missing")
			},
		}

		_, err := pbslog.NewLoggingContentFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil))).
			FetchContent(context.Background(), "https://example.com/missing")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "text=0")
		assert.Contains(t, output, "HTTP 404")
	})
}
