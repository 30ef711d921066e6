package pagebrief

import (
	"context"
	"time"
)

// Result holds the fields a language model produced for one page.
// A Result is immutable once attached to a task.
type Result struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Summary  string   `json:"summary"`
	Hashtags []string `json:"hashtags"`
	Article  string   `json:"article"`
}

// Empty returns true if no field carries any content.
func (r *Result) Empty() bool {
	return r.Title == "" && len(r.Keywords) == 0 && r.Summary == "" &&
		len(r.Hashtags) == 0 && r.Article == ""
}

// ResultWriter persists results as formatted text documents.
type ResultWriter interface {
	// SaveResult writes the result under dir using a unique, timestamp-based
	// file name and returns the written path.
	// Returns EPERSIST if the file cannot be written.
	SaveResult(ctx context.Context, dir string, sourceURL string, result *Result) (string, error)
}

// ReportEntry is one page in a combined crawl report.
type ReportEntry struct {
	SourceURL   string
	Result      *Result
	ExtractedAt time.Time
}

// ReportWriter writes several results into a single document.
type ReportWriter interface {
	// SaveReport writes all entries for a crawled domain into one file under
	// dir and returns its path.
	SaveReport(ctx context.Context, dir string, domain string, entries []ReportEntry) (string, error)
}
