// Package ollama implements pagebrief.Completer against a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/pagebrief"
	"github.com/ollama/ollama/api"
)

// Defaults for a local Ollama install.
const (
	DefaultHost    = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 5 * time.Minute
)

// Ensure Completer implements pagebrief.Completer at compile time.
var _ pagebrief.Completer = (*Completer)(nil)

// Completer implements pagebrief.Completer with Ollama's generate API.
type Completer struct {
	client *api.Client
	model  string
}

type config struct {
	httpClient *http.Client
}

// Option configures a Completer.
type Option func(*config)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// NewCompleter creates a new Completer. Empty host and model select the
// defaults. A host without a scheme is reached over plain HTTP, the way
// OLLAMA_HOST is usually set.
func NewCompleter(host, model string, opts ...Option) (*Completer, error) {
	if host == "" {
		host = DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(strings.TrimRight(host, "/"))
	if err != nil || base.Host == "" {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "invalid Ollama host %q", host)
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := config{httpClient: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Completer{
		client: api.NewClient(base, cfg.httpClient),
		model:  model,
	}, nil
}

// Complete sends prompt to the generate endpoint without streaming.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", pagebrief.Errorf(pagebrief.EINVALID, "prompt required")
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var reply strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		reply.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return reply.String(), nil
}
