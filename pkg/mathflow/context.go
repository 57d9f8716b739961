package mathflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/randalmurphal/mathflow/pkg/mathflow/checkpoint"
	"github.com/randalmurphal/mathflow/pkg/mathflow/llm"
)

// Context is the execution context handed to every node. It extends
// context.Context with the services a node may need and per-node metadata.
// The executor derives a fresh Context per node with an enriched logger.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run_id and
	// node_id during execution. Never nil.
	Logger() *slog.Logger

	// LLM returns the model client, or nil if none was configured.
	LLM() llm.Client

	// Checkpointer returns the checkpoint store, or nil.
	Checkpointer() checkpoint.Store

	// RunID returns the unique identifier of this run.
	RunID() string

	// NodeID returns the node currently executing, or "" before the run.
	NodeID() string
}

type executionContext struct {
	context.Context

	logger       *slog.Logger
	model        llm.Client
	checkpointer checkpoint.Store
	runID        string
	nodeID       string
}

func (c *executionContext) Logger() *slog.Logger            { return c.logger }
func (c *executionContext) LLM() llm.Client                 { return c.model }
func (c *executionContext) Checkpointer() checkpoint.Store  { return c.checkpointer }
func (c *executionContext) RunID() string                   { return c.runID }
func (c *executionContext) NodeID() string                  { return c.nodeID }

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the base logger for the context.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) { c.logger = logger }
}

// WithLLM sets the model client nodes retrieve via Context.LLM().
func WithLLM(client llm.Client) ContextOption {
	return func(c *executionContext) { c.model = client }
}

// WithCheckpointer sets the checkpoint store for the context.
func WithCheckpointer(store checkpoint.Store) ContextOption {
	return func(c *executionContext) { c.checkpointer = store }
}

// WithContextRunID overrides the auto-generated run identifier.
func WithContextRunID(id string) ContextOption {
	return func(c *executionContext) { c.runID = id }
}

// NewContext wraps a standard context with mathflow services and metadata.
// The run ID defaults to a fresh UUID.
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

// withNodeID derives a per-node context with an enriched logger.
func (c *executionContext) withNodeID(nodeID string) *executionContext {
	return &executionContext{
		Context:      c.Context,
		logger:       c.logger.With("run_id", c.runID, "node_id", nodeID),
		model:        c.model,
		checkpointer: c.checkpointer,
		runID:        c.runID,
		nodeID:       nodeID,
	}
}
