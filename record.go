package pagebrief

import (
	"context"
	"time"
)

// Record is a completed brief kept in the history database.
type Record struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Keywords    []string  `json:"keywords"`
	Summary     string    `json:"summary"`
	Hashtags    []string  `json:"hashtags"`
	Article     string    `json:"article"`
	SavedPath   string    `json:"savedPath"`
	ContentHash string    `json:"contentHash"`
	CompletedAt time.Time `json:"completedAt"`
}

// NewRecord builds a record from a completed task.
func NewRecord(task *Task) *Record {
	rec := &Record{
		TaskID:      task.ID,
		SourceURL:   task.URL,
		SavedPath:   task.SavedPath,
		CompletedAt: task.EndedAt,
	}
	if r := task.Result; r != nil {
		rec.Title = r.Title
		rec.Keywords = r.Keywords
		rec.Summary = r.Summary
		rec.Hashtags = r.Hashtags
		rec.Article = r.Article
	}
	return rec
}

// Result returns the record's fields as a Result.
func (r *Record) Result() *Result {
	return &Result{
		Title:    r.Title,
		Keywords: r.Keywords,
		Summary:  r.Summary,
		Hashtags: r.Hashtags,
		Article:  r.Article,
	}
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	return nil
}

// RecordService represents a service for managing history records.
type RecordService interface {
	// CreateRecord stores a new record, assigning its ID and content hash.
	CreateRecord(ctx context.Context, rec *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
