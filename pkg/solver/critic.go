package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
)

// criticNode distills the validator's critique into actionable corrections
// for the refiner.
func criticNode(temperature float64) mathflow.NodeFunc[MathState] {
	a := agent{name: "Critic", systemPrompt: criticSystemPrompt, temperature: temperature}

	return func(ctx mathflow.Context, s MathState) (MathState, error) {
		feedback := ""
		if s.ValidatorReport != nil {
			feedback = s.ValidatorReport.LLMCritique
		}

		s.CriticReport = a.call(ctx, criticTemplate, map[string]any{
			"feedback": feedback,
		})
		s.RecordTurn("Critic", s.CriticReport)
		return s, nil
	}
}
