package pagebrief_test

import (
	"testing"
	"time"

	"github.com/fwojciec/pagebrief"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	t.Run("accepts absolute http and https URLs", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"https://example.com/a", "http://example.com"} {
			got, err := pagebrief.ValidateURL(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, got)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		got, err := pagebrief.ValidateURL("  https://example.com/a \n")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", got)
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := pagebrief.ValidateURL("   ")

		require.Error(t, err)
		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
		assert.Equal(t, "URL required", pagebrief.ErrorMessage(err))
	})

	t.Run("rejects unsupported scheme", func(t *testing.T) {
		t.Parallel()

		_, err := pagebrief.ValidateURL("ftp://example.com/file")

		require.Error(t, err)
		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
	})

	t.Run("rejects URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := pagebrief.ValidateURL("https:///path")

		require.Error(t, err)
		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
	})
}

func TestTaskStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, pagebrief.StatusQueued.Terminal())
	assert.False(t, pagebrief.StatusProcessing.Terminal())
	assert.True(t, pagebrief.StatusCompleted.Terminal())
	assert.True(t, pagebrief.StatusError.Terminal())
}

func TestTask_Duration(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("zero until ended", func(t *testing.T) {
		t.Parallel()

		task := &pagebrief.Task{StartedAt: start}

		assert.Zero(t, task.Duration())
	})

	t.Run("difference between start and end", func(t *testing.T) {
		t.Parallel()

		task := &pagebrief.Task{StartedAt: start, EndedAt: start.Add(3 * time.Second)}

		assert.Equal(t, 3*time.Second, task.Duration())
	})
}
