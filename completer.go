package pagebrief

import "context"

// Completer sends a single prompt to a language model.
type Completer interface {
	// Complete returns the model's text reply to prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Analyzer produces result fields from page content, one model call per field.
// Each method returns EEXTRACT when the model call fails.
type Analyzer interface {
	Title(ctx context.Context, content *Content) (string, error)
	Keywords(ctx context.Context, content *Content) ([]string, error)
	Summary(ctx context.Context, content *Content) (string, error)
	Hashtags(ctx context.Context, content *Content) ([]string, error)
	Article(ctx context.Context, content *Content) (string, error)
}
