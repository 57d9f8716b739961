package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
)

// Node IDs in the pipeline graph.
const (
	NodeOrchestrator = "orchestrator"
	NodeGenerator    = "generator"
	NodeValidator    = "validator"
	NodeCritic       = "critic"
	NodeRefiner      = "refiner"
	NodeEvaluator    = "evaluator"
)

// Temperatures holds per-role sampling temperatures. Judgment roles run
// cold, generation roles get a little freedom.
type Temperatures struct {
	Generator float64
	Validator float64
	Critic    float64
	Refiner   float64
	Evaluator float64
}

// DefaultTemperatures returns the stock per-role settings.
func DefaultTemperatures() Temperatures {
	return Temperatures{
		Generator: 0.2,
		Validator: 0.0,
		Critic:    0.1,
		Refiner:   0.3,
		Evaluator: 0.0,
	}
}

// Option configures pipeline construction.
type Option func(*options)

type options struct {
	temps Temperatures
}

// WithTemperatures overrides the per-role sampling temperatures.
func WithTemperatures(t Temperatures) Option {
	return func(o *options) { o.temps = t }
}

// BuildGraph assembles the agent pipeline. The orchestrator is both the
// entry point and the hub: every worker node returns to it, and its
// conditional edge dispatches to the first stage whose output is missing,
// or END once everything is filled in.
func BuildGraph(opts ...Option) (*mathflow.CompiledGraph[MathState], error) {
	o := options{temps: DefaultTemperatures()}
	for _, opt := range opts {
		opt(&o)
	}

	g := mathflow.NewGraph[MathState]().
		AddNode(NodeOrchestrator, orchestratorNode()).
		AddNode(NodeGenerator, generatorNode(o.temps.Generator)).
		AddNode(NodeValidator, validatorNode(o.temps.Validator)).
		AddNode(NodeCritic, criticNode(o.temps.Critic)).
		AddNode(NodeRefiner, refinerNode(o.temps.Refiner)).
		AddNode(NodeEvaluator, evaluatorNode(o.temps.Evaluator)).
		SetEntry(NodeOrchestrator).
		AddConditionalEdge(NodeOrchestrator, routeFromOrchestrator).
		AddEdge(NodeGenerator, NodeOrchestrator).
		AddEdge(NodeValidator, NodeOrchestrator).
		AddEdge(NodeCritic, NodeOrchestrator).
		AddEdge(NodeRefiner, NodeOrchestrator).
		AddEdge(NodeEvaluator, NodeOrchestrator)

	return g.Compile()
}

// routeFromOrchestrator maps the orchestrator's decision onto graph node
// IDs.
func routeFromOrchestrator(ctx mathflow.Context, s MathState) string {
	switch DecideNext(s) {
	case RoleGenerator:
		return NodeGenerator
	case RoleValidator:
		return NodeValidator
	case RoleCritic:
		return NodeCritic
	case RoleRefiner:
		return NodeRefiner
	case RoleEvaluator:
		return NodeEvaluator
	default:
		return mathflow.END
	}
}

// Solve runs the full pipeline on one question. The solution key may be
// empty; programmatic checks then stay unknown and the LLM critique carries
// the validation.
func Solve(ctx mathflow.Context, question, solutionKey string, runOpts ...mathflow.RunOption) (MathState, error) {
	graph, err := BuildGraph()
	if err != nil {
		return MathState{}, err
	}
	return graph.Run(ctx, NewState(question, solutionKey), runOpts...)
}
