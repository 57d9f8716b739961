package solver

import (
	"github.com/randalmurphal/mathflow/pkg/mathflow"
	"github.com/randalmurphal/mathflow/pkg/mathflow/llm"
	"github.com/randalmurphal/mathflow/pkg/mathflow/template"
)

// agent is the shared base for the five roles: a name, a system prompt,
// and a sampling temperature. Role behavior lives in the node functions.
type agent struct {
	name         string
	systemPrompt string
	temperature  float64
}

// call renders tmpl against vars, prefixes the system prompt, and sends
// the combined prompt to the run's model client. A run configured without
// a client behaves like a missing model binary so the pipeline still
// completes end to end.
func (a agent) call(ctx mathflow.Context, tmpl string, vars map[string]any) string {
	prompt := a.systemPrompt + "\n\n" + template.Expand(tmpl, vars)

	client := ctx.LLM()
	if client == nil {
		return llm.SentinelMissing
	}

	response := client.Generate(ctx, prompt, a.temperature)

	ctx.Logger().Debug("agent call",
		"agent", a.name,
		"temperature", a.temperature,
		"prompt_len", len(prompt),
		"response_len", len(response),
	)
	return response
}
