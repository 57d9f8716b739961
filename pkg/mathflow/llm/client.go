// Package llm defines the model boundary for the pipeline: a synchronous
// text-in/text-out client that never fails. Invocation problems (missing
// backend, timeout, transport error) are folded into bracketed sentinel
// strings so agents can carry on with a degraded response instead of
// aborting the run.
package llm

import (
	"context"
	"strings"
)

// Client generates a completion for a prompt. Implementations must not
// return errors through the text channel any other way than a sentinel
// string (see IsSentinel); the pipeline treats every response as model
// output.
type Client interface {
	Generate(ctx context.Context, prompt string, temperature float64) string
}

// Sentinel prefixes produced when invocation fails.
const (
	// SentinelMissing is returned when the backend binary is not installed.
	SentinelMissing = "[ollama-missing]"

	// SentinelError is returned for timeouts and other invocation failures.
	SentinelError = "[ollama-error]"
)

// IsSentinel reports whether text is an invocation-failure placeholder
// rather than real model output.
func IsSentinel(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, SentinelMissing) || strings.HasPrefix(t, SentinelError)
}

// GenerateFunc adapts a plain function to the Client interface.
type GenerateFunc func(ctx context.Context, prompt string, temperature float64) string

// Generate implements Client.
func (f GenerateFunc) Generate(ctx context.Context, prompt string, temperature float64) string {
	return f(ctx, prompt, temperature)
}
