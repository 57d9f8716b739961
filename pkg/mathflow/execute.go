package mathflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/mathflow/pkg/mathflow/checkpoint"
	"github.com/randalmurphal/mathflow/pkg/mathflow/observability"
	"go.opentelemetry.io/otel/trace"
)

// Run executes the graph from its entry point with the given initial state.
// On success it returns the state after the last node before END. On error
// it returns the state at the point of failure, which is useful for
// inspection and recovery.
func (cg *CompiledGraph[S]) Run(ctx Context, state S, opts ...RunOption) (result S, runErr error) {
	if ctx == nil {
		return state, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.checkpointStore != nil && cfg.runID == "" {
		return state, ErrRunIDRequired
	}

	runID := cfg.runID
	if runID == "" {
		runID = ctx.RunID()
	}

	start := time.Now()
	observability.LogRunStart(cfg.logger, runID)

	var execCtx context.Context = ctx
	var runSpan trace.Span
	if cfg.tracingEnabled {
		execCtx, runSpan = cfg.spans.StartRunSpan(ctx, "mathflow", runID)
		defer func() { cfg.spans.EndSpanWithError(runSpan, runErr) }()
	}

	var visited int
	result, visited, runErr = cg.loop(execCtx, ctx, state, cg.entry, &cfg)

	elapsed := time.Since(start)
	cfg.metrics.RecordGraphRun(ctx, runErr == nil, elapsed)

	if runErr != nil {
		var lastNode string
		var nodeErr *NodeError
		var maxErr *MaxIterationsError
		var cancelErr *CancellationError
		switch {
		case errors.As(runErr, &nodeErr):
			lastNode = nodeErr.NodeID
		case errors.As(runErr, &maxErr):
			lastNode = maxErr.LastNodeID
		case errors.As(runErr, &cancelErr):
			lastNode = cancelErr.NodeID
		}
		observability.LogRunError(cfg.logger, runID, runErr, float64(elapsed.Milliseconds()), lastNode)
		return result, runErr
	}

	observability.LogRunComplete(cfg.logger, runID, float64(elapsed.Milliseconds()), visited)
	return result, nil
}

// loop is the core executor: run node, route, checkpoint, repeat until END.
// tracingCtx carries span parentage; fgCtx is the mathflow Context nodes see.
func (cg *CompiledGraph[S]) loop(tracingCtx context.Context, fgCtx Context, state S, startNode string, cfg *runConfig) (S, int, error) {
	current := startNode
	prev := ""
	visited := 0

	for current != END {
		if visited >= cfg.maxIterations {
			return state, visited, &MaxIterationsError{
				Max:        cfg.maxIterations,
				LastNodeID: current,
				State:      state,
			}
		}

		select {
		case <-fgCtx.Done():
			return state, visited, &CancellationError{
				NodeID: current,
				State:  state,
				Cause:  fgCtx.Err(),
			}
		default:
		}

		observability.LogNodeStart(cfg.logger, current)

		nodeTracingCtx := tracingCtx
		var nodeSpan trace.Span
		if cfg.tracingEnabled {
			nodeTracingCtx, nodeSpan = cfg.spans.StartNodeSpan(tracingCtx, current)
		}

		nodeStart := time.Now()
		var nodeErr error
		state, nodeErr = cg.executeNode(fgCtx, current, state)
		nodeElapsed := time.Since(nodeStart)

		cfg.metrics.RecordNodeExecution(nodeTracingCtx, current, nodeElapsed, nodeErr)
		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(nodeSpan, nodeErr)
		}

		if nodeErr != nil {
			observability.LogNodeError(cfg.logger, current, nodeErr)
			return state, visited, nodeErr
		}
		observability.LogNodeComplete(cfg.logger, current, float64(nodeElapsed.Milliseconds()))
		visited++

		next, err := cg.route(fgCtx, state, current)
		if err != nil {
			return state, visited, err
		}

		if cfg.checkpointStore != nil {
			if err := cg.saveCheckpoint(fgCtx, cfg, current, prev, state, next); err != nil {
				return state, visited, err
			}
		}

		prev = current
		current = next
	}

	return state, visited, nil
}

// executeNode runs one node with panic recovery.
func (cg *CompiledGraph[S]) executeNode(ctx Context, nodeID string, state S) (result S, err error) {
	fn, ok := cg.getNode(nodeID)
	if !ok {
		// Unreachable after a successful Compile().
		return state, &NodeError{
			NodeID: nodeID,
			Op:     "lookup",
			Err:    fmt.Errorf("node not found: %s", nodeID),
		}
	}

	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(nodeID)
	}

	defer func() {
		if r := recover(); r != nil {
			result = state
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	result, err = fn(nodeCtx, state)
	if err != nil {
		return result, &NodeError{NodeID: nodeID, Op: "execute", Err: err}
	}
	return result, nil
}

// route determines the successor of current. Conditional edges win over
// simple edges; only the first simple edge is followed.
func (cg *CompiledGraph[S]) route(ctx Context, state S, current string) (string, error) {
	if router, ok := cg.getRouter(current); ok {
		routerCtx := ctx
		if ec, ok := ctx.(*executionContext); ok {
			routerCtx = ec.withNodeID(current)
		}

		next := router(routerCtx, state)
		if next == "" {
			return "", &RouterError{FromNode: current, Returned: next, Err: ErrInvalidRouterResult}
		}
		if next != END {
			if _, ok := cg.getNode(next); !ok {
				return "", &RouterError{FromNode: current, Returned: next, Err: ErrRouterTargetNotFound}
			}
		}
		return next, nil
	}

	edges := cg.edges[current]
	if len(edges) == 0 {
		return "", &NodeError{
			NodeID: current,
			Op:     "routing",
			Err:    fmt.Errorf("no outgoing edge from node %s", current),
		}
	}
	return edges[0], nil
}

// saveCheckpoint serializes state and persists it to the configured store.
// Failures are logged and swallowed unless WithFatalCheckpoints was given.
func (cg *CompiledGraph[S]) saveCheckpoint(ctx Context, cfg *runConfig, nodeID, prevNode string, state S, nextNode string) error {
	fail := func(op string, err error) error {
		if cfg.fatalCheckpoint {
			return &CheckpointError{NodeID: nodeID, Op: op, Err: err}
		}
		observability.LogCheckpointError(cfg.logger, nodeID, op, err)
		return nil
	}

	stateBytes, err := json.Marshal(state)
	if err != nil {
		return fail("serialize", err)
	}

	cfg.sequence++
	cp := checkpoint.New(cfg.runID, nodeID, cfg.sequence, stateBytes, nextNode).
		WithPrevNode(prevNode)

	data, err := cp.Marshal()
	if err != nil {
		return fail("marshal", err)
	}

	if err := cfg.checkpointStore.Save(cfg.runID, nodeID, data); err != nil {
		return fail("save", err)
	}

	observability.LogCheckpoint(cfg.logger, nodeID, len(data))
	cfg.metrics.RecordCheckpoint(ctx, nodeID, int64(len(data)))
	return nil
}
