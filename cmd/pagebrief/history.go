package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/pagebrief"
)

// Run executes the history list command.
func (c *HistoryListCmd) Run(deps *Dependencies) error {
	filter := pagebrief.RecordFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No briefs yet. Use 'pagebrief brief <url>' to create one.")
		return nil
	}

	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n    %s\n",
			rec.ID, rec.CompletedAt.Local().Format(time.DateTime), title, rec.SourceURL)
	}
	return nil
}

// Run executes the history show command.
func (c *HistoryShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		if pagebrief.ErrorCode(err) == pagebrief.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: brief %q not found. Use 'pagebrief history' to see past briefs.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		}
		return err
	}

	printResult(deps.Stdout, rec.SourceURL, rec.Result(), rec.SavedPath)
	return nil
}

// Run executes the history delete command.
func (c *HistoryDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return pagebrief.Errorf(pagebrief.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Records.DeleteRecord(deps.Ctx, c.ID); err != nil {
		if pagebrief.ErrorCode(err) == pagebrief.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: brief %q not found. Use 'pagebrief history' to see past briefs.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted brief %s\n", c.ID)
	return nil
}
