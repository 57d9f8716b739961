package mathflow

import (
	"context"
)

// Test state types.

// counter is a minimal state for increment-style tests.
type counter struct {
	Value int
}

// workState exercises richer scenarios.
type workState struct {
	Step     int      `json:"step"`
	Progress []string `json:"progress"`
	Done     bool     `json:"done"`
}

// Helper nodes.

func incrementNode(ctx Context, s counter) (counter, error) {
	s.Value++
	return s, nil
}

func passthrough[S any](ctx Context, s S) (S, error) {
	return s, nil
}

// makeTrackingNode records executions in tracker and in the state.
func makeTrackingNode(name string, tracker *[]string) NodeFunc[workState] {
	return func(ctx Context, s workState) (workState, error) {
		*tracker = append(*tracker, name)
		s.Progress = append(s.Progress, name)
		return s, nil
	}
}

func makeFailingNode(err error) NodeFunc[workState] {
	return func(ctx Context, s workState) (workState, error) {
		return s, err
	}
}

func makePanicNode(value any) NodeFunc[workState] {
	return func(ctx Context, s workState) (workState, error) {
		panic(value)
	}
}

func testCtx() Context {
	return NewContext(context.Background())
}
