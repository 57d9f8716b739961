package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
)

// evaluatorNode scores the refinement two ways: automatic metrics from
// extracted answers against the solution key, and an LLM rubric judgment.
// The automatic flags stay nil wherever a comparison cannot be made.
func evaluatorNode(temperature float64) mathflow.NodeFunc[MathState] {
	a := agent{name: "Evaluator", systemPrompt: evaluatorSystemPrompt, temperature: temperature}

	return func(ctx mathflow.Context, s MathState) (MathState, error) {
		metrics := &AutomaticMetrics{}
		if n, ok := ExtractFinalNumber(s.InitialAnswer); ok {
			metrics.BaselineExtracted = n
		}
		if n, ok := ExtractFinalNumber(s.RefinedAnswer); ok {
			metrics.RefinedExtracted = n
		}
		if gold, ok := ExtractLastNumber(s.SolutionKey); ok {
			metrics.SolutionKey = gold
			if eq, comparable := numbersEqual(metrics.BaselineExtracted, gold); comparable {
				metrics.BaselineCorrect = boolPtr(eq)
			}
			if eq, comparable := numbersEqual(metrics.RefinedExtracted, gold); comparable {
				metrics.RefinedCorrect = boolPtr(eq)
			}
		}
		if metrics.BaselineCorrect != nil && metrics.RefinedCorrect != nil {
			metrics.Improved = boolPtr(!*metrics.BaselineCorrect && *metrics.RefinedCorrect)
		}
		s.AutomaticMetrics = metrics

		s.Evaluation = a.call(ctx, evaluatorRubricTemplate, map[string]any{
			"question": s.Question,
			"original": s.InitialAnswer,
			"refined":  s.RefinedAnswer,
			"gold":     s.SolutionKey,
		})
		s.RecordTurn("Evaluator", s.Evaluation)
		return s, nil
	}
}
