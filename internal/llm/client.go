// Package llm wraps the generative-AI model behind a small interface and recovers
// structured JSON from its free-form replies.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Request is a single-shot generation request.
type Request struct {
	Prompt string
	// JSON asks the model for an application/json response.
	JSON bool
}

// Client generates text from a prompt. Implementations make exactly one upstream call
// per Generate and never retry.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
