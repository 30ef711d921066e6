package main

import (
	"fmt"
	"net/url"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	start, err := pagebrief.ValidateURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Discovering pages on %s...\n", start)
	urls, err := deps.Crawler.Discover(deps.Ctx, start, crawl.Options{
		MaxPages: c.MaxPages,
		MaxDepth: c.MaxDepth,
		Sitemap:  c.Sitemap,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Found %d pages\n", len(urls))

	settings := deps.Tasks.Settings()
	if !c.SavePages && settings.AutoSave {
		s := settings
		s.AutoSave = false
		deps.Tasks.SetSettings(s)
	}

	out := newSyncWriter(deps.Stdout)
	tasks, err := runTasks(deps.Ctx, deps.Tasks, out, urls)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}

	entries := make([]pagebrief.ReportEntry, 0, len(tasks))
	for _, task := range tasks {
		if task.Status != pagebrief.StatusCompleted || task.Result == nil {
			continue
		}
		entries = append(entries, pagebrief.ReportEntry{
			SourceURL:   task.URL,
			Result:      task.Result,
			ExtractedAt: task.EndedAt,
		})
	}
	if len(entries) == 0 {
		err := pagebrief.Errorf(pagebrief.EFETCH, "no pages of %s could be briefed", start)
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}

	path, err := deps.Reports.SaveReport(deps.Ctx, settings.ProjectDirectory, domainOf(start), entries)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(out, "\nBriefed %d of %d pages\n", len(entries), len(tasks))
	fmt.Fprintf(out, "Report saved to %s\n", path)
	return nil
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
