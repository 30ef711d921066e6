// Package anthropic implements pagebrief.Completer with Anthropic's Messages
// API through aktagon/llmkit.
package anthropic

import (
	"context"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"github.com/fwojciec/pagebrief"
)

// Request defaults.
const (
	DefaultModel       = "claude-sonnet-4-20250514"
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.3
)

// SystemPrompt is sent with every request.
const SystemPrompt = "You are an editorial assistant. Follow the requested output format exactly and base every answer only on the content provided."

// PromptFunc sends one system and user prompt pair and returns the reply.
type PromptFunc func(system, user, apiKey string, settings types.RequestSettings) (string, error)

// Ensure Completer implements pagebrief.Completer at compile time.
var _ pagebrief.Completer = (*Completer)(nil)

// Completer implements pagebrief.Completer using Claude models.
type Completer struct {
	apiKey   string
	settings types.RequestSettings

	// Prompt performs the request. Defaults to llmkit's PromptWithSettings.
	Prompt PromptFunc
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(apiKey, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{
		apiKey: apiKey,
		settings: types.RequestSettings{
			Model:       model,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Prompt: prompt,
	}
}

// Complete sends prompt and returns the first text block of the reply.
// llmkit calls are not cancellable, so a cancelled context returns early
// and the request finishes in the background.
func (c *Completer) Complete(ctx context.Context, userPrompt string) (string, error) {
	if userPrompt == "" {
		return "", pagebrief.Errorf(pagebrief.EINVALID, "prompt required")
	}
	if c.apiKey == "" {
		return "", pagebrief.Errorf(pagebrief.EINVALID, "anthropic API key required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		text, err := c.Prompt(SystemPrompt, userPrompt, c.apiKey, c.settings)
		done <- reply{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

func prompt(system, user, apiKey string, settings types.RequestSettings) (string, error) {
	response, err := anthropic.PromptWithSettings(system, user, "", apiKey, settings)
	if err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", pagebrief.Errorf(pagebrief.EINTERNAL, "anthropic returned no content")
	}
	return response.Content[0].Text, nil
}
