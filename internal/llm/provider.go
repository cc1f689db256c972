// Package llm generates assignment summaries and study plans through a
// pluggable text-completion provider, with all generated text cached so a
// given assignment is only ever sent to the model once.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Client is the minimal interface the summarizer uses to call an LLM.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options selects and configures a provider.
type Options struct {
	Provider string // "ollama" (default) or "gemini"
	Model    string
	BaseURL  string // ollama endpoint
	APIKey   string // gemini
	Timeout  time.Duration
}

// New builds a Client for the configured provider.
func New(opts Options) (Client, error) {
	switch opts.Provider {
	case "", "ollama":
		return NewOllamaClient(opts.BaseURL, opts.Model, opts.Timeout), nil
	case "gemini":
		return NewGeminiClient(opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}
