package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
)

// generatorNode produces the initial solution in two passes. Pass one
// reasons about the problem, then the arithmetic candidate from that
// reasoning is evaluated and fed back so pass two can correct itself
// against the computed value.
func generatorNode(temperature float64) mathflow.NodeFunc[MathState] {
	a := agent{name: "Generator", systemPrompt: generatorSystemPrompt, temperature: temperature}

	return func(ctx mathflow.Context, s MathState) (MathState, error) {
		reasoning := a.call(ctx, generatorSolveTemplate, map[string]any{
			"question": s.Question,
		})
		s.RecordTurn("Generator-pass1", reasoning)

		s.ToolResult = toolCandidate(reasoning)

		final := a.call(ctx, generatorFinalizeTemplate, map[string]any{
			"reasoning":   reasoning,
			"tool_result": s.ToolResult,
		})
		s.InitialAnswer = final
		s.RecordTurn("Generator-final", final)
		return s, nil
	}
}
