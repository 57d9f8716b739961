package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
)

// Role names the pipeline stages the orchestrator can dispatch to.
type Role string

const (
	RoleGenerator Role = "generator"
	RoleValidator Role = "validator"
	RoleCritic    Role = "critic"
	RoleRefiner   Role = "refiner"
	RoleEvaluator Role = "evaluator"
	RoleEnd       Role = "end"
)

// DecideNext routes purely on which state fields have been produced so
// far. The priority order is fixed: each stage's output gates the next,
// so a resumed or hand-built state always lands on the first missing
// stage.
func DecideNext(s MathState) Role {
	switch {
	case s.InitialAnswer == "":
		return RoleGenerator
	case s.ValidatorReport == nil:
		return RoleValidator
	case s.CriticReport == "":
		return RoleCritic
	case s.RefinedAnswer == "":
		return RoleRefiner
	case s.Evaluation == "":
		return RoleEvaluator
	default:
		return RoleEnd
	}
}

// announcements are the per-role transcript entries the orchestrator logs
// when dispatching.
var announcements = map[Role]string{
	RoleGenerator: "Starting solution with Generator.",
	RoleValidator: "Sending solution to Validator.",
	RoleCritic:    "Forwarding Validator report to Critic.",
	RoleRefiner:   "Sending corrections to Refiner.",
	RoleEvaluator: "Sending original vs refined to Evaluator.",
}

// orchestratorNode announces each dispatch in the transcript and, on the
// terminal visit, publishes the final answer. Publishing is guarded so a
// repeat visit cannot overwrite it.
func orchestratorNode() mathflow.NodeFunc[MathState] {
	return func(ctx mathflow.Context, s MathState) (MathState, error) {
		next := DecideNext(s)

		if next == RoleEnd {
			if s.FinalAnswer == "" {
				if s.RefinedAnswer != "" {
					s.FinalAnswer = s.RefinedAnswer
				} else {
					s.FinalAnswer = s.InitialAnswer
				}
				s.RecordTurn("Orchestrator", "Final answer ready.")
			}
			return s, nil
		}

		s.RecordTurn("Orchestrator", announcements[next])
		ctx.Logger().Debug("orchestrator dispatch", "next", string(next))
		return s, nil
	}
}
