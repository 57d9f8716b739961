/*
Package mathflow executes directed graphs of typed-state nodes. It exists to
run LLM agent pipelines: nodes do work against a shared state value, edges
define flow, and a conditional edge (router) picks successors from runtime
state.

# Basic usage

	type State struct {
	    Question string
	    Answer   string
	}

	func answer(ctx mathflow.Context, s State) (State, error) {
	    s.Answer = "42"
	    return s, nil
	}

	g := mathflow.NewGraph[State]().
	    AddNode("answer", answer).
	    AddEdge("answer", mathflow.END).
	    SetEntry("answer")

	compiled, err := g.Compile()
	if err != nil {
	    log.Fatal(err)
	}

	ctx := mathflow.NewContext(context.Background())
	result, err := compiled.Run(ctx, State{Question: "what is 6*7?"})

# Conditional routing

A router function turns a node into a decision point:

	g.AddConditionalEdge("orchestrate", func(ctx mathflow.Context, s State) string {
	    if s.Answer == "" {
	        return "answer"
	    }
	    return mathflow.END
	})

Routers must return an existing node ID or END. Loops are permitted; the
per-run iteration cap (WithMaxIterations) stops runaway cycles.

# Services

Nodes obtain services from the Context: a structured logger, the model
client (Context.LLM), and the checkpoint store. Checkpointing after each
node plus Resume() gives crash recovery for long batch runs.

Execution is strictly sequential. One Run owns its state value for the
duration of the run; the engine never shares state across goroutines.
*/
package mathflow
