package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
)

// validatorNode checks the initial answer two ways: a programmatic
// comparison of the extracted answer against the solution key, and an LLM
// critique of the reasoning. The numeric check stays nil when either side
// has no parseable number.
func validatorNode(temperature float64) mathflow.NodeFunc[MathState] {
	a := agent{name: "Validator", systemPrompt: validatorSystemPrompt, temperature: temperature}

	return func(ctx mathflow.Context, s MathState) (MathState, error) {
		report := &ValidatorReport{GoldAnswer: s.SolutionKey}

		if predicted, ok := ExtractFinalNumber(s.InitialAnswer); ok {
			report.PredictedAnswer = predicted
		}
		if gold, ok := ExtractLastNumber(s.SolutionKey); ok {
			if eq, comparable := numbersEqual(report.PredictedAnswer, gold); comparable {
				report.SymbolicCheck = boolPtr(eq)
			}
		}

		report.LLMCritique = a.call(ctx, validatorCritiqueTemplate, map[string]any{
			"solution": s.InitialAnswer,
		})

		s.ValidatorReport = report
		s.RecordTurn("Validator", report.LLMCritique)
		return s, nil
	}
}
