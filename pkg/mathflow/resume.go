package mathflow

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/mathflow/pkg/mathflow/checkpoint"
)

// resumeConfig holds options applied when resuming from a checkpoint.
type resumeConfig struct {
	replayNode bool
}

// ResumeOption configures Resume().
type ResumeOption func(*resumeConfig)

// WithReplayNode re-executes the checkpointed node instead of starting at
// its successor. Use when the node is idempotent and its output is suspect.
func WithReplayNode() ResumeOption {
	return func(c *resumeConfig) { c.replayNode = true }
}

// Resume continues a run from its latest checkpoint. The loaded state is
// deserialized into S and execution proceeds from the checkpoint's recorded
// next node (or the node itself with WithReplayNode). Checkpointing stays
// enabled for the remainder of the run using the same store and run ID.
func (cg *CompiledGraph[S]) Resume(ctx Context, store checkpoint.Store, runID string, opts ...ResumeOption) (S, error) {
	var zero S
	if ctx == nil {
		return zero, ErrNilContext
	}

	cfg := resumeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	infos, err := store.List(runID)
	if err != nil {
		return zero, fmt.Errorf("list checkpoints: %w", err)
	}
	if len(infos) == 0 {
		return zero, fmt.Errorf("%w: %s", ErrNoCheckpoints, runID)
	}

	latest := infos[len(infos)-1]
	data, err := store.Load(runID, latest.NodeID)
	if err != nil {
		return zero, fmt.Errorf("load checkpoint: %w", err)
	}

	cp, err := checkpoint.Unmarshal(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}
	if cp.Version != checkpoint.Version {
		return zero, fmt.Errorf("%w: got %d, expected %d",
			ErrCheckpointVersionMismatch, cp.Version, checkpoint.Version)
	}

	var state S
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return state, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}

	startNode := cp.NextNode
	if cfg.replayNode {
		startNode = cp.NodeID
	}
	if startNode != END {
		if _, ok := cg.getNode(startNode); !ok {
			return state, fmt.Errorf("invalid resume node %q", startNode)
		}
	}

	runCfg := defaultRunConfig()
	runCfg.checkpointStore = store
	runCfg.runID = runID
	runCfg.sequence = cp.Sequence

	result, _, err := cg.loop(ctx, ctx, state, startNode, &runCfg)
	return result, err
}
