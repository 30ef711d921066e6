package fs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/pagebrief"
)

const reportSeparator = "---------------------------------------------------------------"

// FormatReport renders a combined crawl report with one numbered section per
// page.
func FormatReport(domain string, entries []pagebrief.ReportEntry, crawled time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Crawled Content from %s\n\n", domain)
	fmt.Fprintf(&b, "Crawl Date: %s\n", crawled.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Pages Crawled: %d\n\n", len(entries))

	for i, e := range entries {
		r := e.Result
		if r == nil {
			r = &pagebrief.Result{}
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, r.Title)
		fmt.Fprintf(&b, "Source: %s\n", e.SourceURL)
		fmt.Fprintf(&b, "Extracted: %s\n\n", e.ExtractedAt.Format("2006-01-02 15:04:05"))

		b.WriteString("### Keywords\n")
		b.WriteString(strings.Join(r.Keywords, ", ") + "\n\n")
		b.WriteString("### Summary\n")
		b.WriteString(r.Summary + "\n\n")
		b.WriteString("### Hashtags\n")
		b.WriteString(strings.Join(r.Hashtags, " ") + "\n\n")
		b.WriteString("### Full Article\n")
		b.WriteString(r.Article + "\n\n")

		if i < len(entries)-1 {
			b.WriteString(reportSeparator + "\n\n")
		}
	}
	return b.String()
}

// SaveReport writes the combined report for domain into dir.
func (w *Writer) SaveReport(ctx context.Context, dir, domain string, entries []pagebrief.ReportEntry) (string, error) {
	if len(entries) == 0 {
		return "", pagebrief.Errorf(pagebrief.EINVALID, "no pages to report")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := w.Now()
	name := "crawled_content_" + now.Format("20060102-150405")
	return writeExclusive(dir, name, FormatReport(domain, entries, now))
}
