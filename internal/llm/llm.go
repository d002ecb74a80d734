// Package llm talks to the external text-generation providers.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator produces a completion for a grounded prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Model() string
}

// Request is a single system+user exchange.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Response carries the completion text and the raw provider payload.
type Response struct {
	Text  string
	Model string
	Raw   json.RawMessage
}

// Provider names accepted by New.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// Options configures a provider client.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Stats    *Stats
}

// New builds the client for opts.Provider.
func New(opts Options) (Generator, error) {
	switch strings.ToLower(opts.Provider) {
	case ProviderGroq:
		return NewGroqClient(opts.APIKey, opts.Model, opts.BaseURL, opts.Stats), nil
	case ProviderAnthropic:
		return NewClaudeClient(opts.APIKey, opts.Model, opts.BaseURL, opts.Stats), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}

const maxResponseBytes = 1 << 20

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
