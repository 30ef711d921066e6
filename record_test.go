package pagebrief_test

import (
	"testing"
	"time"

	"github.com/fwojciec/pagebrief"
	"github.com/stretchr/testify/assert"
)

func TestNewRecord(t *testing.T) {
	t.Parallel()

	ended := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	task := &pagebrief.Task{
		ID:        "task-1",
		URL:       "https://example.com/a",
		Status:    pagebrief.StatusCompleted,
		EndedAt:   ended,
		SavedPath: "/out/brief.md",
		Result: &pagebrief.Result{
			Title:    "Title",
			Keywords: []string{"go", "queues"},
			Summary:  "Short.",
			Hashtags: []string{"#go"},
			Article:  "Body",
		},
	}

	rec := pagebrief.NewRecord(task)

	assert.Equal(t, "task-1", rec.TaskID)
	assert.Equal(t, "https://example.com/a", rec.SourceURL)
	assert.Equal(t, "/out/brief.md", rec.SavedPath)
	assert.Equal(t, ended, rec.CompletedAt)
	assert.Equal(t, task.Result, rec.Result())
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	err := (&pagebrief.Record{}).Validate()

	assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
}

func TestResult_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, (&pagebrief.Result{}).Empty())
	assert.True(t, (&pagebrief.Result{Keywords: []string{}}).Empty())
	assert.False(t, (&pagebrief.Result{Hashtags: []string{"#a"}}).Empty())
	assert.False(t, (&pagebrief.Result{Article: "x"}).Empty())
}

func TestContent_ArticleSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "# md", (&pagebrief.Content{Text: "text", Markdown: "# md"}).ArticleSource())
	assert.Equal(t, "text", (&pagebrief.Content{Text: "text"}).ArticleSource())
}
