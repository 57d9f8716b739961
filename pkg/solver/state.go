package solver

// DialogueTurn is one entry in the append-only run transcript.
type DialogueTurn struct {
	Speaker string `json:"speaker"`
	Content string `json:"content"`
}

// ValidatorReport is the Validator's structured verdict. SymbolicCheck is
// tri-state: nil means the comparison could not be made (no gold answer, or
// a side failed to parse as a number).
type ValidatorReport struct {
	PredictedAnswer string `json:"predicted_answer,omitempty"`
	GoldAnswer      string `json:"gold_answer,omitempty"`
	SymbolicCheck   *bool  `json:"symbolic_check,omitempty"`
	LLMCritique     string `json:"llm_critique,omitempty"`
}

// AutomaticMetrics is the Evaluator's programmatic scoring. The correctness
// flags are tri-state (*bool, nil = unknown): "wrong" and "unmeasurable"
// must not be conflated. Improved is true only when the baseline was wrong
// and the refined answer is right.
type AutomaticMetrics struct {
	BaselineExtracted string `json:"baseline_extracted_answer,omitempty"`
	RefinedExtracted  string `json:"refined_extracted_answer,omitempty"`
	SolutionKey       string `json:"solution_key,omitempty"`
	BaselineCorrect   *bool  `json:"baseline_correct,omitempty"`
	RefinedCorrect    *bool  `json:"refined_correct,omitempty"`
	Improved          *bool  `json:"improved,omitempty"`
}

// MathState is the shared state threaded through the pipeline graph. It is
// passed by value between nodes; each node returns an updated copy. Every
// field is written by exactly one role and never overwritten by another.
type MathState struct {
	// Set by the caller.
	Question    string `json:"question"`
	SolutionKey string `json:"solution_key,omitempty"` // ground truth, may be empty

	// Generator.
	InitialAnswer string `json:"initial_answer,omitempty"`
	ToolResult    string `json:"tool_result,omitempty"`

	// Validator.
	ValidatorReport *ValidatorReport `json:"validator_report,omitempty"`

	// Critic.
	CriticReport string `json:"critic_report,omitempty"`

	// Refiner.
	RefinerToolResult string `json:"refiner_tool_result,omitempty"`
	RefinedAnswer     string `json:"refined_answer,omitempty"`

	// Evaluator.
	Evaluation       string            `json:"evaluation,omitempty"`
	AutomaticMetrics *AutomaticMetrics `json:"automatic_metrics,omitempty"`

	// Orchestrator, on the terminal visit.
	FinalAnswer string `json:"final_answer,omitempty"`

	// Transcript, append-only, insertion order significant.
	Dialogue []DialogueTurn `json:"dialogue,omitempty"`
}

// NewState creates the initial state for one pipeline run.
func NewState(question, solutionKey string) MathState {
	return MathState{
		Question:    question,
		SolutionKey: solutionKey,
		Dialogue:    []DialogueTurn{},
	}
}

// RecordTurn appends a dialogue entry.
func (s *MathState) RecordTurn(speaker, content string) {
	s.Dialogue = append(s.Dialogue, DialogueTurn{Speaker: speaker, Content: content})
}

func boolPtr(b bool) *bool { return &b }
