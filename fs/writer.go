// Package fs saves briefs and crawl reports as Markdown files.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagebrief"
)

// Section headings of a saved brief, in file order.
const (
	keywordsHeading = "## Keywords"
	summaryHeading  = "## Summary"
	hashtagsHeading = "## Hashtags"
	articleHeading  = "## Full Article"
)

// maxNameAttempts bounds the numeric suffixes tried for a taken file name.
const maxNameAttempts = 1000

// FormatResult renders a result as a Markdown document: title heading,
// source URL, keywords, summary, hashtags and full article.
func FormatResult(sourceURL string, result *pagebrief.Result, saved time.Time) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight("# "+result.Title, " "))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Source: %s\n", sourceURL)
	fmt.Fprintf(&b, "Saved: %s\n\n", saved.Format("2006-01-02 15:04:05"))

	b.WriteString(keywordsHeading + "\n\n")
	writeList(&b, result.Keywords)

	b.WriteString(summaryHeading + "\n\n")
	b.WriteString(escapeHeadings(result.Summary))
	b.WriteString("\n\n")

	b.WriteString(hashtagsHeading + "\n\n")
	writeList(&b, result.Hashtags)

	b.WriteString(articleHeading + "\n\n")
	b.WriteString(result.Article)
	b.WriteString("\n")
	return b.String()
}

// escapeHeadings backslash-escapes lines that would read as headings, so
// summary text can't open a section. Markdown renders the escaped line as
// written.
func escapeHeadings(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, `\`) {
			lines[i] = `\` + line
		}
	}
	return strings.Join(lines, "\n")
}

func unescapeHeading(line string) string {
	return strings.TrimPrefix(line, `\`)
}

func writeList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	if len(items) > 0 {
		b.WriteString("\n")
	}
}

// ParseResult reads a document written by FormatResult and returns its
// source URL and result. Empty lists are returned as nil.
func ParseResult(doc string) (string, *pagebrief.Result, error) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	head, article, ok := strings.Cut(doc, "\n"+articleHeading+"\n")
	if !ok {
		return "", nil, pagebrief.Errorf(pagebrief.EINVALID, "missing %q section", articleHeading)
	}
	lines := strings.Split(head, "\n")
	if !strings.HasPrefix(lines[0], "#") {
		return "", nil, pagebrief.Errorf(pagebrief.EINVALID, "missing title heading")
	}

	result := &pagebrief.Result{
		Title:   strings.TrimSpace(strings.TrimPrefix(lines[0], "#")),
		Article: strings.TrimSuffix(strings.TrimPrefix(article, "\n"), "\n"),
	}

	var sourceURL, section string
	var summary []string
	for _, line := range lines[1:] {
		switch line {
		case keywordsHeading, summaryHeading, hashtagsHeading:
			section = line
			continue
		}

		switch section {
		case "":
			if v, ok := strings.CutPrefix(line, "Source: "); ok {
				sourceURL = v
			}
		case keywordsHeading:
			if v, ok := strings.CutPrefix(line, "- "); ok {
				result.Keywords = append(result.Keywords, v)
			}
		case summaryHeading:
			summary = append(summary, unescapeHeading(line))
		case hashtagsHeading:
			if v, ok := strings.CutPrefix(line, "- "); ok {
				result.Hashtags = append(result.Hashtags, v)
			}
		}
	}
	result.Summary = strings.Trim(strings.Join(summary, "\n"), "\n")

	if sourceURL == "" {
		return "", nil, pagebrief.Errorf(pagebrief.EINVALID, "missing source URL")
	}
	return sourceURL, result, nil
}

// FileName returns the base name for a brief of sourceURL saved at t.
// The suffix is derived from the URL so that briefs of different pages saved
// in the same second get different names.
func FileName(sourceURL string, t time.Time) string {
	return fmt.Sprintf("brief-%s-%08x", t.Format("20060102-150405"), uint32(xxhash.Sum64String(sourceURL)))
}

// Ensure Writer implements pagebrief.ResultWriter and pagebrief.ReportWriter
// at compile time.
var (
	_ pagebrief.ResultWriter = (*Writer)(nil)
	_ pagebrief.ReportWriter = (*Writer)(nil)
)

// Writer writes results and reports as Markdown files.
type Writer struct {
	// Now may be replaced in tests.
	Now func() time.Time
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// SaveResult writes result into dir under a new file name. Existing files are
// never overwritten.
func (w *Writer) SaveResult(ctx context.Context, dir, sourceURL string, result *pagebrief.Result) (string, error) {
	if result == nil {
		return "", pagebrief.Errorf(pagebrief.EINVALID, "result required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := w.Now()
	return writeExclusive(dir, FileName(sourceURL, now), FormatResult(sourceURL, result, now))
}

// writeExclusive creates dir/name.md, or dir/name-2.md and so on when the
// name is taken, and writes content to it.
func writeExclusive(dir, name, content string) (string, error) {
	if dir == "" {
		return "", pagebrief.Errorf(pagebrief.EPERSIST, "project directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", pagebrief.Errorf(pagebrief.EPERSIST, "create directory: %v", err)
	}

	for i := 1; i <= maxNameAttempts; i++ {
		path := filepath.Join(dir, name+".md")
		if i > 1 {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", name, i))
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", pagebrief.Errorf(pagebrief.EPERSIST, "create file: %v", err)
		}

		_, err = f.WriteString(content)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
			return "", pagebrief.Errorf(pagebrief.EPERSIST, "write %s: %v", path, err)
		}
		return path, nil
	}
	return "", pagebrief.Errorf(pagebrief.EPERSIST, "no free file name for %s in %s", name, dir)
}
