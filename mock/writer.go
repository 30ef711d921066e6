package mock

import (
	"context"

	"github.com/fwojciec/pagebrief"
)

var _ pagebrief.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of pagebrief.ResultWriter.
type ResultWriter struct {
	SaveResultFn func(ctx context.Context, dir, sourceURL string, result *pagebrief.Result) (string, error)
}

func (w *ResultWriter) SaveResult(ctx context.Context, dir, sourceURL string, result *pagebrief.Result) (string, error) {
	return w.SaveResultFn(ctx, dir, sourceURL, result)
}

var _ pagebrief.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of pagebrief.ReportWriter.
type ReportWriter struct {
	SaveReportFn func(ctx context.Context, dir, domain string, entries []pagebrief.ReportEntry) (string, error)
}

func (w *ReportWriter) SaveReport(ctx context.Context, dir, domain string, entries []pagebrief.ReportEntry) (string, error) {
	return w.SaveReportFn(ctx, dir, domain, entries)
}
