package mathflow

import (
	"log/slog"

	"github.com/randalmurphal/mathflow/pkg/mathflow/checkpoint"
	"github.com/randalmurphal/mathflow/pkg/mathflow/observability"
)

// runConfig holds per-run execution settings.
type runConfig struct {
	maxIterations int

	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool

	checkpointStore checkpoint.Store
	runID           string
	sequence        int
	fatalCheckpoint bool
}

func defaultRunConfig() runConfig {
	return runConfig{
		maxIterations: 100,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// RunOption configures a single Run() call.
type RunOption func(*runConfig)

// WithMaxIterations caps the number of node executions per run.
// Default 100. Guards against routers that never reach END.
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithObservabilityLogger sets the logger used for run/node lifecycle logs.
func WithObservabilityLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) { c.logger = logger }
}

// WithMetrics enables OpenTelemetry metrics for this run.
func WithMetrics(rec observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if rec != nil {
			c.metrics = rec
		}
	}
}

// WithTracing toggles per-run and per-node OTel spans.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		}
	}
}

// WithCheckpointing persists state to the store after each node.
// Requires WithRunID.
func WithCheckpointing(store checkpoint.Store) RunOption {
	return func(c *runConfig) { c.checkpointStore = store }
}

// WithRunID identifies the run for checkpointing.
func WithRunID(id string) RunOption {
	return func(c *runConfig) { c.runID = id }
}

// WithFatalCheckpoints makes checkpoint persistence failures abort the run.
// By default they are logged and ignored.
func WithFatalCheckpoints() RunOption {
	return func(c *runConfig) { c.fatalCheckpoint = true }
}
