package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
)

// refinerNode rewrites the solution under the critic's corrections, again
// in two passes with a tool evaluation between the draft and the final
// version, mirroring the generator.
func refinerNode(temperature float64) mathflow.NodeFunc[MathState] {
	a := agent{name: "Refiner", systemPrompt: refinerSystemPrompt, temperature: temperature}

	return func(ctx mathflow.Context, s MathState) (MathState, error) {
		draft := a.call(ctx, refinerRewriteTemplate, map[string]any{
			"original":    s.InitialAnswer,
			"corrections": s.CriticReport,
		})
		s.RecordTurn("Refiner-draft", draft)

		s.RefinerToolResult = toolCandidate(draft)

		final := a.call(ctx, refinerFinalizeTemplate, map[string]any{
			"draft":       draft,
			"tool_result": s.RefinerToolResult,
		})
		s.RefinedAnswer = final
		s.RecordTurn("Refiner-final", final)
		return s, nil
	}
}
