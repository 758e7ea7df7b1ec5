// Package llm abstracts chat-completion providers behind a single call.
package llm

import (
	"context"
	"errors"
)

// Request is one completion call: a system instruction plus a user message.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	// JSONOutput asks providers that support it to constrain output to JSON.
	JSONOutput bool
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the text payload of the first candidate.
type Response struct {
	Text  string
	Model string
	Usage *Usage
}

// Client abstracts LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Provider() string
}

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("llm response has no text content")
