package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "qwen2:32b"

// Ollama invokes a locally hosted model through the ollama CLI binary.
// Each Generate call is one blocking subprocess run with a bounded
// wall-clock timeout.
type Ollama struct {
	path    string
	model   string
	timeout time.Duration
}

// OllamaOption configures an Ollama client.
type OllamaOption func(*Ollama)

// WithPath overrides the ollama binary path (default "ollama" from PATH).
func WithPath(path string) OllamaOption {
	return func(o *Ollama) { o.path = path }
}

// WithModel sets the model name (default DefaultModel).
func WithModel(model string) OllamaOption {
	return func(o *Ollama) { o.model = model }
}

// WithTimeout bounds each invocation (default 5 minutes).
func WithTimeout(d time.Duration) OllamaOption {
	return func(o *Ollama) { o.timeout = d }
}

// NewOllama creates an Ollama client.
func NewOllama(opts ...OllamaOption) *Ollama {
	o := &Ollama{
		path:    "ollama",
		model:   DefaultModel,
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Model returns the configured model name.
func (o *Ollama) Model() string { return o.model }

// Generate implements Client. The prompt is passed positionally to
// `ollama run <model> <prompt>`; the CLI has no temperature flag, so the
// parameter only takes effect with API-backed clients. All failure modes
// degrade to sentinel strings.
func (o *Ollama) Generate(ctx context.Context, prompt string, temperature float64) string {
	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, o.path, "run", o.model, prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String())
	}

	var execErr *exec.Error
	switch {
	case errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound):
		return SentinelMissing + " ollama CLI not found in PATH"
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return SentinelError + " ollama run timed out"
	}

	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = strings.TrimSpace(stdout.String())
	}
	if msg == "" {
		msg = err.Error()
	}
	return fmt.Sprintf("%s %s", SentinelError, msg)
}
