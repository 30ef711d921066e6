// Package analyze builds the per-field prompts sent to a language model and
// parses its replies into result fields.
package analyze

import (
	"context"
	"strings"

	"github.com/fwojciec/pagebrief"
)

// Content prefix sizes, in characters, sent with each prompt.
const (
	TitleLimit    = 1000
	KeywordsLimit = 1500
	SummaryLimit  = 2000
	HashtagsLimit = 1000
	ArticleLimit  = 2000
)

// Ensure Analyzer implements pagebrief.Analyzer at compile time.
var _ pagebrief.Analyzer = (*Analyzer)(nil)

// Analyzer implements pagebrief.Analyzer with one completion per field.
type Analyzer struct {
	completer pagebrief.Completer
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(completer pagebrief.Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Title asks for a concise title. Only the first line of the reply is kept.
func (a *Analyzer) Title(ctx context.Context, content *pagebrief.Content) (string, error) {
	reply, err := a.complete(ctx, "title", BuildTitlePrompt(content.Text))
	if err != nil {
		return "", err
	}
	return CleanText(trimHeading(firstLine(reply))), nil
}

// Keywords asks for five to seven keywords.
func (a *Analyzer) Keywords(ctx context.Context, content *pagebrief.Content) ([]string, error) {
	reply, err := a.complete(ctx, "keywords", BuildKeywordsPrompt(content.Text))
	if err != nil {
		return nil, err
	}
	return ParseList(reply), nil
}

// Summary asks for a two to three sentence summary.
func (a *Analyzer) Summary(ctx context.Context, content *pagebrief.Content) (string, error) {
	reply, err := a.complete(ctx, "summary", BuildSummaryPrompt(content.Text))
	if err != nil {
		return "", err
	}
	return CleanText(reply), nil
}

// Hashtags asks for three to five hashtags.
func (a *Analyzer) Hashtags(ctx context.Context, content *pagebrief.Content) ([]string, error) {
	reply, err := a.complete(ctx, "hashtags", BuildHashtagsPrompt(content.Text))
	if err != nil {
		return nil, err
	}
	return ParseHashtags(reply), nil
}

// Article asks for the content reformatted as a Markdown article.
// It prefers the page's Markdown over its plain text.
func (a *Analyzer) Article(ctx context.Context, content *pagebrief.Content) (string, error) {
	reply, err := a.complete(ctx, "article", BuildArticlePrompt(content.ArticleSource()))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (a *Analyzer) complete(ctx context.Context, field, prompt string) (string, error) {
	reply, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return "", pagebrief.Errorf(pagebrief.EEXTRACT, "%s: %v", field, err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", pagebrief.Errorf(pagebrief.EEXTRACT, "%s: empty reply", field)
	}
	return reply, nil
}
