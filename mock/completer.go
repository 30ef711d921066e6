package mock

import (
	"context"

	"github.com/fwojciec/pagebrief"
)

var _ pagebrief.Completer = (*Completer)(nil)

// Completer is a mock implementation of pagebrief.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
}

func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteFn(ctx, prompt)
}

var _ pagebrief.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of pagebrief.Analyzer.
type Analyzer struct {
	TitleFn    func(ctx context.Context, content *pagebrief.Content) (string, error)
	KeywordsFn func(ctx context.Context, content *pagebrief.Content) ([]string, error)
	SummaryFn  func(ctx context.Context, content *pagebrief.Content) (string, error)
	HashtagsFn func(ctx context.Context, content *pagebrief.Content) ([]string, error)
	ArticleFn  func(ctx context.Context, content *pagebrief.Content) (string, error)
}

func (a *Analyzer) Title(ctx context.Context, content *pagebrief.Content) (string, error) {
	return a.TitleFn(ctx, content)
}

func (a *Analyzer) Keywords(ctx context.Context, content *pagebrief.Content) ([]string, error) {
	return a.KeywordsFn(ctx, content)
}

func (a *Analyzer) Summary(ctx context.Context, content *pagebrief.Content) (string, error) {
	return a.SummaryFn(ctx, content)
}

func (a *Analyzer) Hashtags(ctx context.Context, content *pagebrief.Content) ([]string, error) {
	return a.HashtagsFn(ctx, content)
}

func (a *Analyzer) Article(ctx context.Context, content *pagebrief.Content) (string, error) {
	return a.ArticleFn(ctx, content)
}
